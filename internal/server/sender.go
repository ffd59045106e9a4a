package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

// localSender runs controller mutations against storage in-process, with
// the same validation and error statuses as the REST API.
type localSender struct {
	server *Server
}

var _ controller.Sender = localSender{}

func (l localSender) Send(ctx context.Context, m client.Mutation) (model.Record, error) {
	s := l.server
	var (
		record model.Record
		err    error
	)
	switch m.Method {
	case http.MethodPost:
		record, err = s.createRecord(ctx, m.Kind, m.StoreID, m.Values)
	case http.MethodPatch, http.MethodPut:
		record, err = s.updateRecord(ctx, m.Kind, m.StoreID, m.RecordID, m.Values)
	case http.MethodDelete:
		record, err = s.storage.Get(ctx, m.Kind, m.StoreID, m.RecordID)
		if err == nil {
			err = s.storage.Delete(ctx, m.Kind, m.StoreID, m.RecordID)
		}
	default:
		err = &client.StatusError{Code: http.StatusMethodNotAllowed, Message: fmt.Sprintf("method %s not allowed", m.Method)}
	}
	if err != nil {
		return model.Record{}, statusOf(err)
	}
	return record, nil
}
