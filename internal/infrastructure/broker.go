package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ttchat/internal/interfaces"
)

// UppileBroker talks to the external OAuth broker. The broker keeps the
// real provider credentials; we only ever handle opaque token
// references.
type UppileBroker struct {
	baseURL     string
	clientToken string
	client      *http.Client
}

func NewUppileBroker(baseURL, clientToken string) *UppileBroker {
	return &UppileBroker{
		baseURL:     baseURL,
		clientToken: clientToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *UppileBroker) AuthorizeURL(provider string, scopes []string, state, redirectURI string) string {
	params := url.Values{}
	params.Set("client_token", b.clientToken)
	params.Set("provider", provider)
	params.Set("scopes", strings.Join(scopes, ","))
	params.Set("state", state)
	params.Set("redirect_uri", redirectURI)
	return b.baseURL + "/oauth/authorize?" + params.Encode()
}

func (b *UppileBroker) ExchangeCode(ctx context.Context, provider, code string) (*interfaces.TokenGrant, error) {
	body := map[string]string{
		"client_token": b.clientToken,
		"code":         code,
		"provider":     provider,
	}

	var resp struct {
		TokenRef   string         `json:"token_ref"`
		ExternalID string         `json:"external_id"`
		Scopes     []string       `json:"scopes"`
		Metadata   map[string]any `json:"metadata"`
	}
	if err := b.post(ctx, "/oauth/token", body, &resp); err != nil {
		return nil, err
	}

	return &interfaces.TokenGrant{
		TokenRef:   resp.TokenRef,
		ExternalID: resp.ExternalID,
		Scopes:     resp.Scopes,
		Metadata:   resp.Metadata,
	}, nil
}

func (b *UppileBroker) MintAccessToken(ctx context.Context, tokenRef string) (*interfaces.AccessToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		b.baseURL+"/tokens/"+url.PathEscape(tokenRef)+"/access", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.clientToken)

	res, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("broker token mint: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		respBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("broker token mint: %s body=%s", res.Status, respBody)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("broker token mint decode: %w", err)
	}

	return &interfaces.AccessToken{
		Token:     payload.AccessToken,
		ExpiresAt: time.Unix(payload.ExpiresAt, 0),
	}, nil
}

func (b *UppileBroker) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("broker %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		respBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("broker %s: %s body=%s", path, res.Status, respBody)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
