// Package openapi converts OpenAPI 3 operations into table and form configs.
// Request body schemas become forms, array response schemas become tables;
// properties map to fields and columns with format-aware types (email, date,
// uri, and friends). Properties convert in alphabetical order because JSON
// object schemas carry no declaration order.
package openapi
