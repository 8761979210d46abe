package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// TestInvoker bypasses the external workflow entirely. It never fails and
// returns a synthetic extraction so uploads can be exercised without any
// automation backend configured.
type TestInvoker struct{}

func NewTestInvoker() *TestInvoker {
	return &TestInvoker{}
}

func (t *TestInvoker) Invoke(ctx context.Context, payload Payload) (*Outcome, error) {
	extracted, _ := json.Marshal(map[string]interface{}{
		"test":     true,
		"message":  "This is mock data. Configure the extraction webhook for real processing.",
		"filename": payload.Filename,
	})

	confidence := 1.0
	return &Outcome{
		Success:          true,
		ExtractedJSON:    datatypes.JSON(extracted),
		GeneratedMessage: fmt.Sprintf("Successfully uploaded %s. This is a test upload without external processing.", payload.Filename),
		RawText:          fmt.Sprintf("Mock raw text for %s. In production the workflow extracts the actual document content.", payload.Filename),
		Confidence:       &confidence,
		TemplateID:       payload.TemplateID,
		Mock:             true,
	}, nil
}
