package task

// These constants refer to the statuses supported by the app.
const (
	StatusCanceled   Status = "canceled"
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Layouts used when stamping tasks and views.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Status is the name of a task status as stored in the tasks file.
type Status string

// ranks drives transition legality; the legality test depends on the absolute
// numbers, not just their order.
var ranks = map[Status]int{
	StatusCanceled:   0,
	StatusNew:        1,
	StatusInProgress: 2,
	StatusReview:     3,
	StatusDone:       4,
}

// Task is a single tracked work item. The json tags match the tasks file.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	// CreatedAt is set once when the task is added and never changes.
	CreatedAt string `json:"date_creation"`
	// ChangedAt stays empty until the first accepted status transition.
	ChangedAt string `json:"date_change"`
}

// Rank returns the rank of s and whether s is a known status.
func (s Status) Rank() (int, bool) {
	r, ok := ranks[s]

	return r, ok
}

// Valid reports whether s is a member of the status set.
func (s Status) Valid() bool {
	_, ok := ranks[s]

	return ok
}

func (s Status) String() string {
	return string(s)
}

// Statuses returns every status ordered by rank.
func Statuses() []Status {
	return []Status{StatusCanceled, StatusNew, StatusInProgress, StatusReview, StatusDone}
}
