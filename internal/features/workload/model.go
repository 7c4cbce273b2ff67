package workload

import "time"

type Operation string

const (
	OpSelect     Operation = "SELECT" // population count that precedes every choice
	OpInsert     Operation = "INSERT"
	OpUpdate     Operation = "UPDATE"
	OpSoftDelete Operation = "SOFT_DELETE"
	OpHardDelete Operation = "HARD_DELETE"
	OpStats      Operation = "STATS"
)

// Operations lists the mutations the selector can choose, in routing order.
var Operations = []Operation{OpInsert, OpUpdate, OpSoftDelete, OpHardDelete}

type Result string

const (
	ResultSucceeded Result = "succeeded"
	ResultSkipped   Result = "skipped"
	ResultFailed    Result = "failed"
)

var Results = []Result{ResultSucceeded, ResultSkipped, ResultFailed}

// Outcome describes what one tick did. Skipped outcomes are expected no-ops,
// failed ones carry the store error that abandoned the tick.
type Outcome struct {
	Operation Operation
	Result    Result
	UserID    string
	Detail    string
	Err       error
}

// Stats is a population snapshot.
type Stats struct {
	Total    int64     `json:"total"`
	Active   int64     `json:"active"`
	Inactive int64     `json:"inactive"`
	At       time.Time `json:"at"`
}
