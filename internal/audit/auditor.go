package audit

import (
	"net/http"
)

type Auditor interface {
	RecordRequest(req *http.Request, body []byte) error
}

// NopAuditor is used when no auditor is configured.
type NopAuditor struct{}

func NewNopAuditor() Auditor {
	return &NopAuditor{}
}

func (n *NopAuditor) RecordRequest(req *http.Request, body []byte) error {
	return nil
}
