package services

import "sync/atomic"

// CancelFlag is shared by the consumer and the worker of one batch. It only
// ever goes from unset to set.
type CancelFlag struct {
	set atomic.Bool
}

func NewCancelFlag() *CancelFlag {
	return &CancelFlag{}
}

func (flag *CancelFlag) Set() {
	flag.set.Store(true)
}

func (flag *CancelFlag) IsSet() bool {
	return flag.set.Load()
}
