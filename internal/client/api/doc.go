// Package api is the authenticated request pipeline of the MedML backend
// together with the thin domain operations built on top of it.
//
// # Pipeline
//
// Every call goes through Client.Do, which has two stages:
//
//  1. prepare: reads the session token from the TokenSource at send time and,
//     when present, sets "Authorization: Token <t>". The Content-Type is a
//     total function of the body variant: JSONBody and no body get
//     application/json, MultipartBody gets the multipart writer's content
//     type including its boundary. Each call carries a fresh X-Request-ID.
//  2. normalize: a 2xx response is decoded into the caller's value. Every
//     other outcome becomes a single *Error whose Message is, in order of
//     preference, the string "error" field of a JSON body, the transport
//     error message, or FallbackMessage.
//
// There is no retry. The overall deadline of a call is the http.Client
// timeout given to New.
//
// # Domain operations
//
// Auth, profile, patients, predictions, metrics, reports, health and chat
// endpoints are exposed as methods on Client that only shape parameters and
// pick the response type.
package api
