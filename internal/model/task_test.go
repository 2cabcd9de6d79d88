package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packflow/packflow/internal/model"
)

func TestTaskStatusValid(t *testing.T) {
	tests := map[string]struct {
		status model.TaskStatus
		exp    bool
	}{
		"A pipeline status is valid":       {status: model.TaskStatusCorrectionNeeded, exp: true},
		"A terminal status is valid":       {status: model.TaskStatusCancelled, exp: true},
		"An unknown status is not valid":   {status: model.TaskStatus("Shipped"), exp: false},
		"The empty status is not valid":    {status: model.TaskStatus(""), exp: false},
		"Casing matters for status values": {status: model.TaskStatus("pending"), exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.exp, tt.status.Valid())
		})
	}
}

func TestFulfillmentTaskValidate(t *testing.T) {
	tests := map[string]struct {
		task   model.FulfillmentTask
		expErr bool
	}{
		"A valid task should not fail": {
			task: model.FulfillmentTask{ID: "rec123", Status: model.TaskStatusPending},
		},

		"Missing ID should fail": {
			task:   model.FulfillmentTask{Status: model.TaskStatusPending},
			expErr: true,
		},

		"Unknown status should fail": {
			task:   model.FulfillmentTask{ID: "rec123", Status: model.TaskStatus("Lost")},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChecklistJSON(t *testing.T) {
	tests := map[string]struct {
		raw    string
		expErr bool
	}{
		"An empty array is valid":           {raw: `[]`},
		"Opaque line items are valid":       {raw: `[{"sku":"A-1","qty":2},{"sku":"B-9","qty":1,"picked":true}]`},
		"A JSON object is not a checklist":  {raw: `{"sku":"A-1"}`, expErr: true},
		"Malformed JSON is not a checklist": {raw: `[{"sku":`, expErr: true},
		"Empty input is not a checklist":    {raw: ``, expErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := model.ValidateChecklistJSON(tt.raw)
			if tt.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
