package controller

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"sync"

	"go.dedis.ch/elector"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/ledger"
	"golang.org/x/xerrors"
)

// entry is one line of the journal.
type entry struct {
	Tx        string            `json:"tx"`
	Timestamp uint64            `json:"timestamp"`
	Accepted  bool              `json:"accepted"`
	Message   string            `json:"message,omitempty"`
	Events    []execution.Event `json:"events,omitempty"`
}

// journal appends a JSON line per executed transaction, rejected ones
// included.
//
// - implements ledger.Observer
type journal struct {
	sync.Mutex

	out io.WriteCloser
	enc *json.Encoder
}

func openJournal(path string) (*journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, xerrors.Errorf("failed to open journal: %v", err)
	}

	return newJournal(file), nil
}

func newJournal(out io.WriteCloser) *journal {
	return &journal{
		out: out,
		enc: json.NewEncoder(out),
	}
}

// NotifyCallback implements ledger.Observer. A failed write is logged and does
// not affect the transaction.
func (j *journal) NotifyCallback(evt ledger.Executed) {
	j.Lock()
	defer j.Unlock()

	err := j.enc.Encode(entry{
		Tx:        hex.EncodeToString(evt.TxID),
		Timestamp: evt.Timestamp,
		Accepted:  evt.Result.Accepted,
		Message:   evt.Result.Message,
		Events:    evt.Result.Events,
	})
	if err != nil {
		elector.Logger.Warn().Err(err).Msg("failed to write journal")
	}
}

func (j *journal) Close() error {
	j.Lock()
	defer j.Unlock()

	return j.out.Close()
}
