package controller_test

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

var textKinds = []entity.Kind{entity.KindBillboard, entity.KindSize, entity.KindStore}

func TestProperty_NetworkCallIffRequiredFieldsFilled(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.SampledFrom(textKinds).Draw(t, "kind")
		def, _ := entity.Default().Get(kind)
		sender := &fakeSender{}
		ctrl, err := controller.New(def, scope, nil, controller.WithSender(sender))
		if err != nil {
			t.Fatalf("new: %v", err)
		}

		values := map[string]any{}
		var violated []string
		for _, field := range def.Form.Fields {
			v := rapid.SampledFrom([]string{"", "  ", "x", "Summer sale"}).Draw(t, field.Name)
			values[field.Name] = v
			if field.Required && strings.TrimSpace(v) == "" {
				violated = append(violated, field.Name)
			}
		}
		sort.Strings(violated)

		err = ctrl.Submit(context.Background(), values)
		calls := len(sender.Calls())

		if len(violated) == 0 {
			if err != nil || calls != 1 {
				t.Fatalf("valid input: err=%v calls=%d", err, calls)
			}
			return
		}
		if calls != 0 {
			t.Fatalf("invalid input issued %d calls", calls)
		}
		var got []string
		for name := range ctrl.State().Errors {
			got = append(got, name)
		}
		sort.Strings(got)
		if diff := cmp.Diff(violated, got); diff != "" {
			t.Fatalf("error set mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_SubmittingOnlyWhileInFlight(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		deleting := rapid.Bool().Draw(t, "delete")
		outcome := rapid.SampledFrom([]string{"ok", "status", "transport"}).Draw(t, "outcome")

		var ctrl *controller.Controller
		var duringSubmitting, duringConfirming bool
		sender := &fakeSender{respond: func(m client.Mutation) (model.Record, error) {
			state := ctrl.State()
			duringSubmitting = state.Submitting
			duringConfirming = state.ConfirmingDelete
			switch outcome {
			case "status":
				return model.Record{}, &client.StatusError{Code: http.StatusConflict}
			case "transport":
				return model.Record{}, errors.New("reset by peer")
			}
			return model.Record{ID: "b1", Values: m.Values}, nil
		}}
		def, _ := entity.Default().Get(entity.KindBillboard)
		ctrl, _ = controller.New(def, scope, billboardRecord(), controller.WithSender(sender))

		if ctrl.State().Submitting {
			t.Fatalf("submitting before dispatch")
		}
		var err error
		if deleting {
			_ = ctrl.RequestDelete()
			err = ctrl.ConfirmDelete(context.Background())
		} else {
			err = ctrl.Submit(context.Background(), map[string]any{"label": "New"})
		}

		if !duringSubmitting {
			t.Fatalf("submitting not observed during dispatch")
		}
		if deleting && !duringConfirming {
			t.Fatalf("confirmingDelete should stay set while the delete is in flight")
		}
		state := ctrl.State()
		if state.Submitting || state.ConfirmingDelete {
			t.Fatalf("flags not cleared after resolution: %+v", state)
		}
		if (outcome == "ok") != (err == nil) {
			t.Fatalf("outcome %s returned err=%v", outcome, err)
		}
	})
}

func TestProperty_RequestCancelDeleteIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sender := &fakeSender{}
		def, _ := entity.Default().Get(entity.KindBillboard)
		ctrl, _ := controller.New(def, scope, billboardRecord(), controller.WithSender(sender))

		edits := rapid.IntRange(0, 3).Draw(t, "edits")
		for i := 0; i < edits; i++ {
			field := rapid.SampledFrom([]string{"label", "imageUrl"}).Draw(t, "field")
			value := rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "value")
			_ = ctrl.SetValue(field, value)
		}
		if rapid.Bool().Draw(t, "invalidSubmit") {
			_ = ctrl.SetValue("label", "")
			_ = ctrl.Submit(context.Background(), nil)
		}
		before := ctrl.State()
		callsBefore := len(sender.Calls())

		if err := ctrl.RequestDelete(); err != nil {
			t.Fatalf("request delete: %v", err)
		}
		if err := ctrl.CancelDelete(); err != nil {
			t.Fatalf("cancel delete: %v", err)
		}

		if diff := cmp.Diff(before, ctrl.State(), cmp.AllowUnexported(controller.Mode{})); diff != "" {
			t.Fatalf("state mismatch (-want +got):\n%s", diff)
		}
		if len(sender.Calls()) != callsBefore {
			t.Fatalf("request/cancel issued network calls")
		}
	})
}
