package constants

// NATS subjects consumed by the dispatch service
const (
	SubjectBookingCreated   = "booking.created"
	SubjectBookingCancelled = "booking.cancelled"
	SubjectDriverBeacon     = "driver.beacon"
)

// NATS subjects published by the dispatch service
const (
	SubjectBookingAssigned  = "booking.assigned"
	SubjectBookingConfirmed = "booking.confirmed"
	SubjectBookingExpired   = "booking.expired"
)

// NSQ topics for fire-and-forget driver/customer notifications
const (
	TopicDriverOffer        = "driver_offer"
	TopicDriverOfferRevoked = "driver_offer_revoked"
)
