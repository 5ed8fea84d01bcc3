package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskOrderExpireSweep marks unclaimed orders older than the expiry window
// as expired.
const TaskOrderExpireSweep = "orders.expire_sweep"

// TaskAttentionAudit logs a snapshot of the attention queue so stuck-order
// growth is visible in the logs without anyone opening the dashboard.
const TaskAttentionAudit = "orders.attention_audit"

type OrderExpireSweepPayload struct {
	// OlderThan overrides the configured expiry window when positive.
	OlderThan time.Duration `json:"olderThan,omitempty"`
}

func NewOrderExpireSweepTask(payload OrderExpireSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderExpireSweep, data), nil
}

func ParseOrderExpireSweepPayload(task *asynq.Task) (OrderExpireSweepPayload, error) {
	var payload OrderExpireSweepPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrderExpireSweepPayload{}, err
	}
	return payload, nil
}

func NewAttentionAuditTask() *asynq.Task {
	return asynq.NewTask(TaskAttentionAudit, nil)
}
