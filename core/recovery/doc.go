// Package recovery turns the free-form reply of a language model into a flat
// record of string fields. Models asked for "one JSON object" routinely wrap it
// in prose or code fences, cut it off mid-string, emit raw line breaks and
// control characters inside string values, or nest objects where a flat
// string was requested. The [Pipeline] handles all of these with a fixed
// cascade:
//
//  1. extraction of the candidate object ([ExtractBalanced], [Extract]);
//  2. a strict parse of the candidate as-is;
//  3. a strict parse after [Sanitize];
//  4. a truncation rescue that closes an unterminated tail;
//  5. a jsonrepair pass over the sanitized candidate;
//  6. one optional secondary repair through a [Repairer] (usually an LLM);
//  7. [BuildFallback], which always succeeds and keeps the raw reply.
//
// Every successful parse goes through [Coerce], so each schema field of the
// result is a string no matter what type the model used. [Pipeline.Recover]
// never returns an error: the caller always receives a complete record.
package recovery
