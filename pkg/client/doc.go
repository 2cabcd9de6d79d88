// Package client provides a Go client for the packflow fulfillment API.
//
// It lets tools and scripts drive the task lifecycle without hand-rolling
// HTTP calls:
//
//	c, err := client.New(client.Config{BaseURL: "http://localhost:8080"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := c.ApplyAction(ctx, client.ActionRequest{
//	    TaskID:     "recXXXXXXXXXXXXXX",
//	    Action:     "START_PICKING",
//	    OperatorID: "ST-001",
//	})
//
// Validation failures are reported as [ErrInvalidRequest] and missing
// tasks/staff as [ErrNotFound], both wrapped with the server's message.
package client
