package progress

import "github.com/gns3/gns3-desktop/internal/transfer"

// Reporter is the interface for reporting progress of one transfer, whether to
// a terminal bar, a row in a batch display or nowhere.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
	SetDescription(desc string)
}

// Source is anything that emits transfer notifications. *transfer.Worker
// satisfies it.
type Source interface {
	Notifications() <-chan transfer.Notification
}
