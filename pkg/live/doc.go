// Package live serves the websocket that backs the search box on server
// rendered pages.
//
// The browser sends JSON frames:
//
//	{"type":"hello","path":"/","query":"page=2","route":"/","key":"query"}
//	{"type":"input","value":"hel"}
//	{"type":"location","path":"/","query":"page=2&query=hel"}
//
// and the server answers with:
//
//	{"type":"ready","session":"<uuid>"}
//	{"type":"navigate","url":"/?page=2&query=hel","scroll":false}
//	{"type":"event","name":"devflow:notice","data":{"level":"warning","message":"..."}}
//
// Each connection hosts a search.Input whose router is the connection
// itself. Disconnecting unmounts the input, which cancels any pending
// synchronization.
package live
