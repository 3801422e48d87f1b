package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kwheeler/snailmail/internal/model"
)

// promptResponse is the wire shape of GET /prompts.
type promptResponse struct {
	Prompt model.Prompt `json:"prompt"`
}

// FetchPrompt returns a random prompt of the given type. An empty
// prompt pool surfaces as *NotFoundError; other failures surface as
// *FetchError. Prompts need no authentication.
func (c *Client) FetchPrompt(ctx context.Context, typ model.PromptType) (*model.Prompt, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown prompt type %q", typ)
	}

	var resp promptResponse
	err := c.do(ctx, http.MethodGet, "/prompts?type="+string(typ), "", nil, "", &resp)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return nil, err
		}

		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return nil, &NotFoundError{
				Message: fmt.Sprintf("No %s prompts available at this time.", typ),
			}
		}

		status, msg := detailOrFallback(err, "Failed to fetch prompt. Please try again.")
		return nil, &FetchError{Status: status, Message: msg}
	}

	return &resp.Prompt, nil
}
