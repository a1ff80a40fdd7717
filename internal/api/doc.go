// Package api handles incoming HTTP requests, request validation and response
// formatting for the task desk. It translates browser forms and JSON calls into
// service operations and renders their results as redirects, pages or JSON.
package api
