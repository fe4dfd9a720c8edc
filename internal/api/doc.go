// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

/*
Package api exposes the suggestion pipeline over HTTP using the chi router.

Every response uses the models.APIResponse envelope. Failures of the
suggestion call map to status codes as follows:

	UNAUTHENTICATED      401  no or invalid bearer token
	FAILED_PRECONDITION  400  places API key not configured
	INVALID_ARGUMENT     400  preferences missing, non-numeric or out of range
	INTERNAL             500  places fetch or processing failure

Invalid-argument responses list every offending field under
error.details.fields.

Authentication runs as middleware on /api/v1, before any handler, so a
request without a valid identity never reaches the places API or a store.
*/
package api
