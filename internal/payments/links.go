package payments

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Links maps a crown amount to the hosted payment page selling it.
type Links map[int64]string

// ParseLinks reads "1=https://pay/a,5=https://pay/b".
func ParseLinks(raw string) (Links, error) {
	links := Links{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		amount, link, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("payment link %q: want amount=url", part)
		}
		crowns, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil || crowns <= 0 {
			return nil, fmt.Errorf("payment link %q: invalid crown amount", part)
		}
		u, err := url.Parse(strings.TrimSpace(link))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("payment link %q: invalid url", part)
		}
		links[crowns] = u.String()
	}
	return links, nil
}

// CheckoutURL returns the payment page for crowns, tagged with the creator being supported.
func (l Links) CheckoutURL(crowns int64, creatorID string) (string, bool) {
	link, ok := l[crowns]
	if !ok {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	q := u.Query()
	q.Set("client_reference_id", creatorID)
	u.RawQuery = q.Encode()
	return u.String(), true
}
