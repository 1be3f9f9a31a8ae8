// Package validation runs field validation rules against user input at
// runtime. It consumes the canonical configs produced by the schema package:
// rules evaluate in their normalized order and a field reports only its
// first failure.
package validation
