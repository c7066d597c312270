package orders

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
	StatusRefunded   Status = "refunded"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusReturned: true},
	StatusDelivered:  {StatusCompleted: true, StatusReturned: true},
	StatusReturned:   {StatusRefunded: true},
	StatusCancelled:  {},
	StatusCompleted:  {},
	StatusRefunded:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// UserCanCancel: cancel oleh user sendiri cuma dari pending/processing.
// Transisi lain jatahnya admin.
func UserCanCancel(from Status) bool {
	return from == StatusPending || from == StatusProcessing
}

func ValidStatus(s Status) bool {
	_, ok := validNext[s]
	return ok
}
