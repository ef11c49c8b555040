package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewApplicationID builds the human-facing application identifier,
// APP-YYYYMMDD- followed by eight uppercase hex characters.
func NewApplicationID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("APP-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}
