// Package clipboard watches the system clipboard and writes normalized text
// back to it.
//
// A Source yields each externally changed text snapshot; PollingSource
// builds one from any Reader by polling. A Listener runs the
// read, normalize, write-back cycle and never reacts to text it wrote
// itself.
package clipboard
