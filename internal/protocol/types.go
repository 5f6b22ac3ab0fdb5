package protocol

import "encoding/json"

// Request types sent by the controller.
const (
	TypePing  = "ping"
	TypePong  = "pong"
	TypeSleep = "sleep"
	TypeInfo  = "info"
)

// Request is a message from the controller to the agent.
type Request struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is a message from the agent to the controller.
type Response struct {
	ID      string      `json:"id,omitempty"`
	Type    string      `json:"type"`
	Success bool        `json:"success"`
	Payload interface{} `json:"payload,omitempty"`
}

// Connected is the first message the controller sends after the upgrade.
type Connected struct {
	Type    string `json:"type"`
	AgentID string `json:"runner_id"`
}

// InfoPayload is sent by the agent on connect and in reply to "info".
type InfoPayload struct {
	OS        string `json:"os"`
	Hostname  string `json:"hostname,omitempty"`
	OSVersion string `json:"os_version,omitempty"`
	MachineID string `json:"machine_id,omitempty"`
	Version   string `json:"version"`
}

// SleepResultPayload acknowledges a "sleep" request. The agent cannot
// observe whether the machine actually suspends.
type SleepResultPayload struct {
	Requested bool `json:"requested"`
}

// ErrorPayload for error responses.
type ErrorPayload struct {
	Error string `json:"error"`
}

// ResultType is the response type paired with a request type.
func ResultType(reqType string) string {
	return reqType + "_result"
}
