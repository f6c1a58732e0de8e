package param

import "context"

// Fetcher resolves a named secret, such as an SSM parameter path.
type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}
