package audit

import (
	"context"
	"strings"

	"github.com/mssola/useragent"

	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

// NewEvent builds an event for action and fills the request metadata carried by ctx.
func NewEvent(ctx context.Context, action AuditEvent, userID id.UserID, storeID id.StoreID) Event {
	ua := requestcontext.UserAgent(ctx)
	return Event{
		Category:  action.Category(),
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		StoreID:   storeID,
		Action:    string(action),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: ua,
		Browser:   BrowserLabel(ua),
	}
}

// BrowserLabel reduces a User-Agent header to "<name> <version>", "bot", or "".
func BrowserLabel(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		return "bot"
	}
	name, version := ua.Browser()
	if name == "" {
		return ""
	}
	label := name
	if version != "" {
		label += " " + version
	}
	if ua.Mobile() {
		label += " (mobile)"
	}
	return label
}
