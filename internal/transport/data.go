package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
)

// Record is one tag/word/details triple from the external service.
type Record struct {
	Tag     string `json:"tag"`
	Word    string `json:"word"`
	Details string `json:"details"`
}

// DataResponse is the body returned by the data endpoint.
// Elements are kept raw so one malformed record cannot fail the whole response.
type DataResponse struct {
	WordTags []json.RawMessage `json:"wordtags"`
}

// Records decodes every element of WordTags. Elements that are not objects or
// lack a string tag or word are reported in errs and left out of records.
// Details that are missing or not a string decode as empty.
func (r *DataResponse) Records() (records []Record, errs []error) {
	records = make([]Record, 0, len(r.WordTags))
	for i, raw := range r.WordTags {
		rec, err := decodeRecord(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Record{}, errors.NewValidationError("wordtags", string(raw), "record is not an object")
	}

	var rec Record
	if err := json.Unmarshal(fields["tag"], &rec.Tag); err != nil || rec.Tag == "" {
		return Record{}, errors.NewValidationError("tag", string(fields["tag"]), "missing or not a string")
	}
	if err := json.Unmarshal(fields["word"], &rec.Word); err != nil || rec.Word == "" {
		return Record{}, errors.NewValidationError("word", string(fields["word"]), "missing or not a string")
	}
	if d, ok := fields["details"]; ok {
		if err := json.Unmarshal(d, &rec.Details); err != nil {
			rec.Details = ""
		}
	}
	return rec, nil
}

// GetData fetches the records of domain. The session must be authenticated.
//
// The anti-forgery token is re-read from the session because the service
// rotates it after login.
func (c *Client) GetData(ctx context.Context, domain string) (*DataResponse, error) {
	c.mu.Lock()
	ready := !c.closed && c.state == StateAuthenticated
	c.mu.Unlock()
	if !ready {
		return nil, errors.ErrNotAuthenticated
	}
	if domain == "" {
		return nil, &errors.InvalidDomainError{Domain: domain}
	}

	endpoint := c.dataURL.String()
	payload, err := json.Marshal(map[string]string{"domain": domain})
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &errors.ExternalServiceError{Endpoint: endpoint, Message: "failed to build data request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	token := c.csrfToken(c.dataURL)
	if token == "" {
		// The cookie may be scoped to the login host or path only.
		token = c.csrfToken(c.loginURL)
	}
	if token != "" {
		req.Header.Set(constants.CSRFHeader, token)
	} else {
		logging.FromContext(ctx).Debug().Str("endpoint", endpoint).Msg("No anti-forgery token in session")
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.ExternalServiceError{Endpoint: endpoint, Message: "data request failed", Err: err}
	}
	return decodeResponse(ctx, resp, endpoint)
}

// decodeResponse reads a data response into a DataResponse.
func decodeResponse(ctx context.Context, resp *http.Response, endpoint string) (*DataResponse, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return nil, &errors.ExternalServiceError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    "failed to read response body",
			Err:        errors.WrapIO("read", "response body", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalServiceError(resp.StatusCode, endpoint, "data could not be fetched")
	}

	var data DataResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.WrapParse("json", "response", err)
	}
	return &data, nil
}
