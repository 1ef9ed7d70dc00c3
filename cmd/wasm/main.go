//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/whiteboard/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	whiteboardEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	whiteboardEngine.Set("dispatch", js.FuncOf(dispatch))
	whiteboardEngine.Set("loadSampleBoard", js.FuncOf(loadSampleBoard))

	// --- Queries (frontend ← backend) ---
	whiteboardEngine.Set("render", js.FuncOf(render))
	whiteboardEngine.Set("state", js.FuncOf(state))
	whiteboardEngine.Set("hitTest", js.FuncOf(hitTest))

	// Register on global scope
	js.Global().Set("whiteboardEngine", whiteboardEngine)

	// Signal that WASM is ready
	js.Global().Set("whiteboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

// dispatch applies one JSON event. "handled" tells the page whether to
// call preventDefault on the originating DOM event.
func dispatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return js.ValueOf(map[string]interface{}{"error": "missing event JSON"})
	}

	handled, err := eng.DispatchJSON(args[0].String())
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true, "handled": handled})
}

func loadSampleBoard(this js.Value, args []js.Value) interface{} {
	eng.LoadSampleBoard()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func state(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.StateJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}
