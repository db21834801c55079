package services

import "context"

type Transfers interface {
	Start(ctx context.Context, req BatchRequest) (*Operation, error)
	Finish(op *Operation)
	State() RunState
}

type ActionPreviewer interface {
	Preview(ctx context.Context, req BatchRequest) (ActionPreview, error)
}
