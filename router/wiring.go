package router

import (
	"github.com/conserv-tt/conserv-backend/handlers"
	"github.com/conserv-tt/conserv-backend/services"
)

// The concrete services must keep satisfying the handler contracts.
var (
	_ handlers.CartOps      = (*services.CartService)(nil)
	_ handlers.ReceiptOps   = (*services.ReceiptService)(nil)
	_ handlers.PurchaseOps  = (*services.PurchaseService)(nil)
	_ handlers.ExpenseOps   = (*services.ExpenseService)(nil)
	_ handlers.EstimatorOps = (*services.EstimatorService)(nil)
	_ handlers.UploadOps    = (*services.UploadService)(nil)
	_ handlers.DeliveryOps  = (*services.DeliveryService)(nil)
)
