package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skinarb/skinarb/internal/secrets"
)

// httpIPResolver detects the process's public egress IP via a lightweight
// external lookup, per proxypool.IPResolver.
type httpIPResolver struct {
	client *http.Client
}

func newHTTPIPResolver() *httpIPResolver {
	return &httpIPResolver{client: &http.Client{Timeout: 5 * time.Second}}
}

func (r *httpIPResolver) ResolveIP() (string, error) {
	resp, err := r.client.Get("https://api.ipify.org")
	if err != nil {
		return "", fmt.Errorf("resolve egress ip: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", fmt.Errorf("read egress ip: %w", err)
	}
	ip := strings.TrimSpace(string(b))
	if ip == "" {
		return "", fmt.Errorf("empty egress ip response")
	}
	return ip, nil
}

// oculusAllowListUpdater pushes a new egress IP to the Oculus Proxies
// allow-list endpoint, authenticated with OCULUS_AUTH_TOKEN/
// OCULUS_ORDER_TOKEN (spec §6), per proxypool.AllowListUpdater.
type oculusAllowListUpdater struct {
	client   *http.Client
	secrets  *secrets.Registry
	endpoint string
}

func newOculusAllowListUpdater(reg *secrets.Registry) *oculusAllowListUpdater {
	return &oculusAllowListUpdater{
		client:   &http.Client{Timeout: 10 * time.Second},
		secrets:  reg,
		endpoint: "https://api.oculusproxies.com/v1/allowlist",
	}
}

func (u *oculusAllowListUpdater) UpdateAllowList(ip string) error {
	authToken, ok := u.secrets.ProxyVendorToken("OCULUS_AUTH_TOKEN")
	if !ok {
		return fmt.Errorf("oculus allow-list update: OCULUS_AUTH_TOKEN not set")
	}
	orderToken, ok := u.secrets.ProxyVendorToken("OCULUS_ORDER_TOKEN")
	if !ok {
		return fmt.Errorf("oculus allow-list update: OCULUS_ORDER_TOKEN not set")
	}

	body, err := json.Marshal(map[string]string{"ip": ip, "order_token": orderToken})
	if err != nil {
		return fmt.Errorf("oculus allow-list update: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, u.endpoint, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("oculus allow-list update: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("oculus allow-list update: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("oculus allow-list update: unexpected status %d", resp.StatusCode)
	}
	return nil
}
