package handler

// APIPrefix is the path prefix delegated to the ticket sub-router.
// Keep a single source of truth to avoid path drift across handlers and tests.
const APIPrefix = "/api/"

// TicketsPath is the collection endpoint of the ticket resource.
const TicketsPath = APIPrefix + "tickets/"
