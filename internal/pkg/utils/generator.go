package utils

import (
	"fmt"
	"time"

	"leadbook-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateRecordingObjectName builds the MinIO object key for an archived
// call recording.
func GenerateRecordingObjectName(tenantID, callID, fileExtension string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("recordings/%s/%s_%s%s", tenantID, callID, timestamp, fileExtension)
}
