package core

const (
	WaitTime = 10 // seconds, request and shutdown timeout

	DefaultCutoffHours = 4

	MinQuantity = 1

	AuditEntityOrder = "MealOrder"
	AuditUserSystem  = "SYSTEM"
)

type OrderParams struct {
	Port        int
	CutoffHours int
}
