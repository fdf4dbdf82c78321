// Package sanitizer normalizes free-form user input before validation and
// storage.
//
// All normalization functions are idempotent. Invalid input is handled by
// returning an empty string rather than an error, leaving the decision to
// the validator that runs afterwards.
//
// Normalization includes:
//   - Phone numbers: converted to E.164 (+[country][number])
//   - Emails: trimmed and lowercased
//   - Names and addresses: whitespace collapsed and trimmed
//   - Free text: whitespace trimmed, control characters dropped, newlines kept
package sanitizer
