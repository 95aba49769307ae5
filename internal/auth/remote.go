package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Identity is who a verifier vouches for.
type Identity struct {
	ID   string
	Name string
	Role string
}

type RemoteVerifier interface {
	Verify(ctx context.Context, username, password string) (Identity, error)
}

var errRemoteRejected = errors.New("remote verifier rejected credentials")

// HTTPVerifier posts the credentials as JSON to an external login endpoint.
type HTTPVerifier struct {
	URL    string
	Client *http.Client
}

func NewHTTPVerifier(url string) *HTTPVerifier {
	return &HTTPVerifier{URL: url, Client: http.DefaultClient}
}

type remoteRequest struct {
	Usuario string `json:"usuario_input"`
	Senha   string `json:"senha_input"`
}

type remoteResponse struct {
	Success bool            `json:"success"`
	ID      json.RawMessage `json:"id"`
	Nome    string          `json:"nome"`
	Cargo   string          `json:"cargo"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, username, password string) (Identity, error) {
	body, err := json.Marshal(remoteRequest{Usuario: username, Senha: password})
	if err != nil {
		return Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, bytes.NewReader(body))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("remote verifier returned %d", resp.StatusCode)
	}

	// The endpoint answers either with one record or a one-element list.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Identity{}, err
	}
	var out remoteResponse
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []remoteResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return Identity{}, err
		}
		if len(list) == 0 {
			return Identity{}, errRemoteRejected
		}
		out = list[0]
	} else if err := json.Unmarshal(trimmed, &out); err != nil {
		return Identity{}, err
	}

	id := strings.Trim(string(out.ID), `"`)
	if !out.Success || id == "" || id == "null" {
		return Identity{}, errRemoteRejected
	}
	return Identity{
		ID:   id,
		Name: out.Nome,
		Role: strings.ToLower(out.Cargo),
	}, nil
}
