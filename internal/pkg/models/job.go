package models

// JobPayload is the tagged union of work items the dispatch scheduler
// carries. Handlers dispatch on the concrete type, never on string keys.
type JobPayload interface {
	jobPayload()
}

// EvaluateJob asks the orchestrator to run one candidate evaluation pass
// for a booking at the given attempt number.
type EvaluateJob struct {
	BookingID string `json:"booking_id"`
	Attempt   int    `json:"attempt"`
}

func (EvaluateJob) jobPayload() {}

// TimeoutJob fires when a driver has not responded to an offer within
// the offer timeout.
type TimeoutJob struct {
	BookingID string `json:"booking_id"`
	DriverID  string `json:"driver_id"`
}

func (TimeoutJob) jobPayload() {}
