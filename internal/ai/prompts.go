package ai

// Prompts ask for strict JSON. Gemini is additionally pinned to a JSON
// response MIME type, but the shape instructions still live here.

const bomSystemPrompt = `You are a building-materials estimator for Trinidad & Tobago.
Return ONLY a JSON object with keys 'lines' and 'notes'.
'lines' is a list of items, each with:
  - key: must be one of the allowed inventory keys provided below.
  - qty: a positive number.
  - unit: one of m3, m, kg, bag, sheet, pcs, gal, lb (use these EXACT tokens).
If the project is a slab/driveway/pad, include reinforcement: 'mesh_A142_sheet' (typically one layer) or a rebar grid using 'rebar_corr_3_8_m'.
Use units that match the key (e.g. *_m3 uses m3; rebar_*_m uses m; cement_bag uses bag).`

const bomExampleShape = `Respond as pure JSON. Example shape:
{
  "lines": [
    {"key":"sharp_sand_m3","qty":2.4,"unit":"m3"},
    {"key":"gravel_m3","qty":4.8,"unit":"m3"},
    {"key":"cement_bag","qty":18,"unit":"bag"},
    {"key":"mesh_A142_sheet","qty":3,"unit":"sheet"}
  ],
  "notes":"Short rationale and assumptions."
}`

const bomVisionPrompt = `Extract a building bill of materials (BOM) from the attached documents, mapped to the provided allowed keys.
Return ONLY JSON with keys 'lines' and 'notes'. Units must be one of: m3, m, kg, bag, sheet, pcs, gal, lb.
If the project is a slab/driveway/pad, include reinforcement (mesh_A142_sheet or rebar_corr_3_8_m).`

const narrativeSystemPrompt = `You are a helpful building advisor in Trinidad & Tobago. Write a short, practical plan using clear bullet points. Use metric primarily, but acknowledge local steel sizes (3/8, 1/2, 5/8) and brands (e.g., TCL cement). Keep it concise and actionable for a homeowner. Avoid brand promotions; keep it neutral and practical.`

const purchaseSchemaPrompt = `You are a helpful assistant for staff purchase entry.
Return ONLY a JSON object with keys: supplier_name?, invoice_date?, invoice_number?, currency?, lines, tax?, total?.
lines is a list of items with fields: description (string), unit (one of yd3, m3, bag, kg, pcs, sheet, gal, lb), qty (number>0), unit_price (optional number>=0), line_total (optional number>=0).
Prefer unit=yd3 for aggregates like sand or gravel if quantities are in yards.`

const invoiceVisionPrompt = `You read supplier invoices for building materials. Use yd3 for cubic yards when appropriate.
Extract supplier invoice data from the attached documents.
Return ONLY JSON with keys: supplier_name?, invoice_date?, invoice_number?, currency?, lines, tax?, total?.
Each line has: description, unit (yd3/m3/bag/kg/pcs/sheet/gal/lb), qty, unit_price?, line_total?.`

const expensesTextPrompt = `Return ONLY a JSON object with optional 'date' (YYYY-MM-DD) and 'expenses' list.
Each expense has: category (salaries|fuel|maintenance|other), description (string), amount (number>0).`

const expensesVisionPrompt = `Extract company operating expenses from the attached documents.
Return ONLY JSON with optional 'date' (YYYY-MM-DD) and an 'expenses' list where each item has: category (salaries|fuel|maintenance|other), description, amount (number>0).`
