package runtime

import "time"

// RegisterBuiltins adds native functions to the given environment.
func RegisterBuiltins(env *Environment) {
	env.Define("clock", &NativeFunction{
		Name:   "clock",
		Params: 0,
		Fn: func(interp *Interpreter, _ []Value) (Value, error) {
			now := interp.now()
			return NumberVal(float64(now.UnixNano()) / float64(time.Second)), nil
		},
	})
}
