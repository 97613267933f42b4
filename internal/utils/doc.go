// Package utils provides small helpers shared across studyhelper: typed
// parsing of configuration strings, JSON rendering for log and CLI output,
// and UTF-8 safe truncation of LLM text before it is logged.
package utils
