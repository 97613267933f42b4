// Package solve answers exam questions. A Solver sends the question with the
// exam-teacher system prompt, recovers the structured answer from the reply
// and optionally records it in a history store.
//
// Example:
//
//	c, _ := client.New(provider, solve.DefaultClientOptions()...)
//	pipeline, _ := recovery.New(recovery.WithRepairer(repairer))
//	solver, _ := solve.New(c, pipeline, solve.WithHistory(store))
//	result, err := solver.Solve(ctx, solve.Question{UserID: "u1", Text: "..."})
package solve
