package dispatch

import "github.com/govm-net/contract/codec"

// DispatchError is a dispatch failure reported through Revert.
type DispatchError uint8

const (
	UnknownSelector DispatchError = iota + 1
	InvalidParams
	CouldNotReadInput
)

func (e DispatchError) Error() string {
	switch e {
	case UnknownSelector:
		return "unknown selector"
	case InvalidParams:
		return "invalid params"
	case CouldNotReadInput:
		return "could not read input"
	default:
		return "dispatch error"
	}
}

// RetCode is the numeric result of an entry point.
type RetCode int32

const (
	RetSuccess RetCode = 0
	RetFailure RetCode = 1
)

// RetInfo is the outcome of one dispatch.
type RetInfo struct {
	Success bool
	Message string
}

func (r RetInfo) Code() RetCode {
	if r.Success {
		return RetSuccess
	}
	return RetFailure
}

// Encode returns the (bool,string) wire form.
func (r RetInfo) Encode() []byte {
	return codec.EncodeOutcome(r.Success, r.Message)
}

// DecodeRetInfo parses the (bool,string) wire form.
func DecodeRetInfo(data []byte) (RetInfo, error) {
	ok, msg, err := codec.DecodeOutcome(data)
	if err != nil {
		return RetInfo{}, err
	}
	return RetInfo{Success: ok, Message: msg}, nil
}
