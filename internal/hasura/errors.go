package hasura

import "fmt"

// TransportError reports that a GraphQL call never produced a usable
// response: the request failed on the wire, the server answered with an
// error status, or the body could not be decoded.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	if e.Status > 0 {
		return fmt.Sprintf("hasura http error: status %d", e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("hasura request failed: %v", e.Err)
	}
	return "hasura request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GraphQLError reports a well-formed response that carried an application
// error list. The entries are surfaced unmodified.
type GraphQLError struct {
	Errors []QueryError
}

func (e *GraphQLError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "graphql error"
	}
	return fmt.Sprintf("graphql error: %s", e.Errors[0].Message)
}
