package driver

import (
	"context"
	"net/url"

	"github.com/singer-io/tap-amazon-sp/pkg/ratelimit"
	"github.com/singer-io/tap-amazon-sp/pkg/retry"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
)

// pager walks the pages of one call
type pager struct {
	call   spapi.Call
	policy *retry.Policy
	// tokenParam is the query parameter carrying the page token
	tokenParam string
	// pacer spaces fixed quota calls; header driven sleeps are used without it
	pacer *ratelimit.Pacer
}

// paginate fetches pages until the page token is empty. Every page is retried under
// the pager policy and handed to fn before the next one is requested.
func (a *AmazonSP) paginate(ctx context.Context, client *spapi.Client, p pager, fn func(response *spapi.Response) error) error {
	call := p.call
	policy := a.policy(p.policy)

	for {
		if p.pacer != nil {
			p.pacer.Wait()
		}

		var response *spapi.Response
		err := policy.Do(ctx, func(ctx context.Context) error {
			var err error
			response, err = client.Do(ctx, call)
			return err
		})
		if err != nil {
			return err
		}

		if err := fn(response); err != nil {
			return err
		}

		if p.pacer == nil {
			a.sleep(ratelimit.SleepDuration(response.Header))
		}

		if response.NextToken == "" {
			return nil
		}
		call.Params = withParam(call.Params, p.tokenParam, response.NextToken)
	}
}

func withParam(params url.Values, key, value string) url.Values {
	output := url.Values{}
	for k, v := range params {
		output[k] = append([]string(nil), v...)
	}
	output.Set(key, value)
	return output
}
