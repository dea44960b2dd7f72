package gateway

import (
	natspkg "github.com/angkut-id/dispatch/internal/pkg/nats"
	nsqpkg "github.com/angkut-id/dispatch/internal/pkg/nsq"
)

// DispatchGW handles dispatch gateway operations. Lifecycle events go
// through NATS, driver notifications through NSQ.
type DispatchGW struct {
	natsClient  *natspkg.Client
	nsqProducer *nsqpkg.Producer
}

// NewDispatchGW creates a new dispatch gateway
func NewDispatchGW(natsClient *natspkg.Client, nsqProducer *nsqpkg.Producer) *DispatchGW {
	return &DispatchGW{
		natsClient:  natsClient,
		nsqProducer: nsqProducer,
	}
}
