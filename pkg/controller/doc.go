// Package controller implements the entity form controller shared by every
// store entity screen. A Controller owns the form values and errors of one
// screen visit, validates before anything touches the network, dispatches
// exactly one create, update or delete at a time, and reconciles the screen
// with the outcome through the injected refresh, notification and navigation
// collaborators.
//
//	ctrl, err := controller.New(def, entity.Scope{StoreID: "s1"}, &record,
//		controller.WithSender(apiClient),
//		controller.WithNotifier(toasts),
//	)
//	if err != nil {
//		return err
//	}
//	if err := ctrl.Submit(ctx, values); err != nil {
//		kind, _ := controller.KindOf(err)
//		...
//	}
package controller
