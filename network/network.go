package network

import (
	"errors"

	"github.com/gocolly/colly/v2"
)

var ErrMaxRetry = errors.New("max retry")

// RetryRequest retries the request of a failed response as long as the
// `leftRetryCnt` budget stored in its context is not used up. ErrMaxRetry
// is returned once it is.
func RetryRequest(resp *colly.Response) error {
	ctx := resp.Ctx

	left, _ := ctx.GetAny("leftRetryCnt").(int)
	if left <= 0 {
		return ErrMaxRetry
	}

	ctx.Put("leftRetryCnt", left-1)

	return resp.Request.Retry()
}
