package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"
)

// RuleOracle checks a free-text issue transition against a project's
// free-text rules. The content logic is opaque to this service; only the
// verdict matters here.
type RuleOracle interface {
	Validate(ctx context.Context, rules, text string) (valid bool, reason string, err error)
}

// HTTPOracle calls the external validation service.
type HTTPOracle struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPOracleFromEnv returns nil when RULES_ORACLE_URI is unset, which
// callers treat as "no validation configured". The return type is the
// interface so an unconfigured oracle compares equal to nil at the call site.
func NewHTTPOracleFromEnv() RuleOracle {
	base := os.Getenv("RULES_ORACLE_URI")
	if base == "" {
		return nil
	}
	return &HTTPOracle{
		BaseURL: base,
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type oraclePayload struct {
	Rules string `json:"rules"`
	Text  string `json:"text"`
}

type oracleResp struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

func (o *HTTPOracle) Validate(ctx context.Context, rules, text string) (bool, string, error) {
	body, _ := json.Marshal(oraclePayload{Rules: rules, Text: text})

	req, err := http.NewRequestWithContext(ctx, "POST", o.BaseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := o.Client.Do(req)
	if err != nil {
		return false, "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return false, "", errors.New("oracle /validate returned status " + res.Status)
	}

	var out oracleResp
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, "", err
	}
	return out.Valid, out.Reason, nil
}
