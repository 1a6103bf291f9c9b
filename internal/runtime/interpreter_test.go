package runtime

import (
	"bytes"
	"errors"
	"log/slog"
	"lox-lang/internal/diag"
	"lox-lang/internal/lexer"
	"lox-lang/internal/parser"
	"strings"
	"testing"
	"time"
)

// runSource scans, parses and executes source code, returning captured
// stdout and any error.
func runSource(source string, opts ...Option) (string, error) {
	var buf bytes.Buffer
	err := runOn(NewInterpreter(&buf, opts...), source)
	return buf.String(), err
}

func runOn(interp *Interpreter, source string) error {
	tokens, err := lexer.Scan(source)
	if err != nil {
		return err
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		return err
	}
	return interp.Run(stmts)
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

// expectError runs source and checks the fault message and, when code is
// non-empty, its code.
func expectError(t *testing.T, source, code, contains string) *RuntimeError {
	t.Helper()
	_, err := runSource(source)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(rerr.Message, contains) {
		t.Errorf("expected error containing %q, got: %v", contains, rerr.Message)
	}
	if code != "" && rerr.Code != code {
		t.Errorf("expected code %s, got %s", code, rerr.Code)
	}
	return rerr
}

// ---- Expressions ----

func TestPrintLiteral(t *testing.T) {
	expectOutput(t, `print 42;`, "42\n")
	expectOutput(t, `print "hello";`, "hello\n")
	expectOutput(t, `print true;`, "true\n")
	expectOutput(t, `print nil;`, "nil\n")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print 1 + 2;`, "3\n")
	expectOutput(t, `print 1 + 2 * 3;`, "7\n")
	expectOutput(t, `print (1 + 2) * 3;`, "9\n")
	expectOutput(t, `print 10 / 4;`, "2.5\n")
	expectOutput(t, `print 1.5 * 2;`, "3\n")
	expectOutput(t, `print -(3 - 5);`, "2\n")
	expectOutput(t, `print 0.1 + 0.2;`, "0.30000000000000004\n")
}

func TestDivisionFollowsIEEE(t *testing.T) {
	expectOutput(t, `print 1 / 0;`, "inf\n")
	expectOutput(t, `print -1 / 0;`, "-inf\n")
	expectOutput(t, `print 0 / 0;`, "NaN\n")
	expectOutput(t, `var n = 0 / 0; print n == n;`, "false\n")
	expectOutput(t, `var n = 0 / 0; print n != n;`, "true\n")
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `print "a" + "b";`, "ab\n")
	expectOutput(t, `var s = "foo"; print s + "bar" + "baz";`, "foobarbaz\n")
}

func TestMixedPlusFaults(t *testing.T) {
	expectError(t, `print "a" + 1;`, diag.CodeOperandType, "operands must be two numbers or two strings")
	expectError(t, `print 1 + nil;`, diag.CodeOperandType, "operands must be two numbers or two strings")
}

func TestOperandTypeFaults(t *testing.T) {
	expectError(t, `print -"x";`, diag.CodeOperandType, "operand must be a number")
	expectError(t, `print "a" < "b";`, diag.CodeOperandType, "operands must be numbers")
	expectError(t, `print 2 * true;`, diag.CodeOperandType, "operands must be numbers")
}

func TestComparison(t *testing.T) {
	expectOutput(t, `print 1 < 2;`, "true\n")
	expectOutput(t, `print 2 <= 2;`, "true\n")
	expectOutput(t, `print 3 > 4;`, "false\n")
	expectOutput(t, `print 4 >= 5;`, "false\n")
}

func TestEquality(t *testing.T) {
	expectOutput(t, `print 1 == 1;`, "true\n")
	expectOutput(t, `print "a" == "a";`, "true\n")
	expectOutput(t, `print nil == nil;`, "true\n")
	expectOutput(t, `print 1 == "1";`, "false\n")
	expectOutput(t, `print nil == false;`, "false\n")
	expectOutput(t, `print true != false;`, "true\n")
}

func TestCallablesNeverEqual(t *testing.T) {
	expectOutput(t, `fun f() {} print f == f;`, "false\n")
	expectOutput(t, `print clock == clock;`, "false\n")
}

func TestTruthiness(t *testing.T) {
	expectOutput(t, `if (0) print "yes"; else print "no";`, "yes\n")
	expectOutput(t, `if ("") print "yes"; else print "no";`, "yes\n")
	expectOutput(t, `if (nil) print "yes"; else print "no";`, "no\n")
	expectOutput(t, `print !nil;`, "true\n")
	expectOutput(t, `print !!0;`, "true\n")
}

func TestLogicalReturnsOperand(t *testing.T) {
	expectOutput(t, `print nil or "default";`, "default\n")
	expectOutput(t, `print "first" or "second";`, "first\n")
	expectOutput(t, `print nil and "x";`, "nil\n")
	expectOutput(t, `print 1 and 2;`, "2\n")
}

func TestLogicalShortCircuit(t *testing.T) {
	expectOutput(t, `
var hits = 0;
fun bump() { hits = hits + 1; }
false and bump();
true or bump();
print hits;
`, "0\n")
}

// ---- Variables and scope ----

func TestVariables(t *testing.T) {
	expectOutput(t, `var a; print a;`, "nil\n")
	expectOutput(t, `var a = 1; var a = 2; print a;`, "2\n")
	expectOutput(t, `var a = 1; a = a + 1; print a;`, "2\n")
}

func TestAssignmentIsExpression(t *testing.T) {
	expectOutput(t, `var a; var b; a = b = 3; print a; print b;`, "3\n3\n")
	expectOutput(t, `var a; print a = "v";`, "v\n")
}

func TestUndefinedVariable(t *testing.T) {
	rerr := expectError(t, `print missing;`, diag.CodeUndefinedVariable, "undefined variable 'missing'")
	if rerr.Token.Line != 1 {
		t.Errorf("expected line 1, got %d", rerr.Token.Line)
	}
	expectError(t, `missing = 1;`, diag.CodeUndefinedVariable, "undefined variable 'missing'")
}

func TestShadowing(t *testing.T) {
	expectOutput(t, `var a = 1; { var a = 2; print a; } print a;`, "2\n1\n")
}

func TestAssignReachesOuterScope(t *testing.T) {
	expectOutput(t, `var a = 1; { a = 2; } print a;`, "2\n")
}

func TestScopeRestoredAfterFault(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	if err := runOn(interp, `var a = "outer"; { var a = "inner"; print nope; }`); err == nil {
		t.Fatal("expected fault")
	}
	if err := runOn(interp, `print a;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "outer\n" {
		t.Errorf("expected scope restored, got %q", buf.String())
	}
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	if err := runOn(interp, `var x = 40;`); err != nil {
		t.Fatal(err)
	}
	if err := runOn(interp, `print x + 2;`); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "42\n" {
		t.Errorf("got %q", buf.String())
	}
}

// ---- Control flow ----

func TestIfElse(t *testing.T) {
	expectOutput(t, `if (1 < 2) print "then"; else print "else";`, "then\n")
	expectOutput(t, `if (1 > 2) print "then"; else print "else";`, "else\n")
	expectOutput(t, `if (false) print "skip";`, "")
}

func TestDanglingElse(t *testing.T) {
	expectOutput(t, `if (true) if (false) print "a"; else print "b";`, "b\n")
}

func TestWhile(t *testing.T) {
	expectOutput(t, `var i = 0; while (i < 3) { print i; i = i + 1; }`, "0\n1\n2\n")
}

func TestFor(t *testing.T) {
	expectOutput(t, `for (var i = 0; i < 3; i = i + 1) print i;`, "0\n1\n2\n")
	expectOutput(t, `var i = 5; for (; i < 7;) { print i; i = i + 1; }`, "5\n6\n")
}

func TestForLoopVariableIsScoped(t *testing.T) {
	expectError(t, `for (var i = 0; i < 1; i = i + 1) {} print i;`, diag.CodeUndefinedVariable, "undefined variable 'i'")
}

// ---- Functions ----

func TestFunctionCall(t *testing.T) {
	expectOutput(t, `fun greet(name) { print "hi " + name; } greet("bob");`, "hi bob\n")
	expectOutput(t, `fun add(a, b) { print a + b; } add(1, 2);`, "3\n")
}

func TestFunctionReturnsNil(t *testing.T) {
	expectOutput(t, `fun f() { 1; } print f();`, "nil\n")
}

func TestFunctionDisplay(t *testing.T) {
	expectOutput(t, `fun foo() {} print foo;`, "<fn foo>\n")
	expectOutput(t, `print clock;`, "<native function>\n")
}

func TestFunctionSeesGlobalsOnly(t *testing.T) {
	expectOutput(t, `
var x = "global";
{
  var x = "local";
  fun show() { print x; }
  show();
}
`, "global\n")
}

func TestFunctionSeesLaterGlobals(t *testing.T) {
	expectOutput(t, `fun show() { print late; } var late = "ok"; show();`, "ok\n")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
fun count(n) {
  if (n > 0) {
    count(n - 1);
    print n;
  }
}
count(3);
`, "1\n2\n3\n")
}

func TestArityMismatch(t *testing.T) {
	out, err := runSource(`fun f(a, b) { print "ran"; } f(1);`)
	if err == nil {
		t.Fatal("expected arity fault")
	}
	rerr := err.(*RuntimeError)
	if rerr.Code != diag.CodeArity {
		t.Errorf("expected %s, got %s", diag.CodeArity, rerr.Code)
	}
	if rerr.Message != "expected 2 arguments but got 1" {
		t.Errorf("unexpected message %q", rerr.Message)
	}
	if out != "" {
		t.Errorf("body should not run, got output %q", out)
	}
}

func TestCallNonCallable(t *testing.T) {
	expectError(t, `"str"();`, diag.CodeNotCallable, "can only call functions")
	expectError(t, `var x = 1; x();`, diag.CodeNotCallable, "can only call functions")
}

func TestArgumentsEvaluatedBeforeArityCheck(t *testing.T) {
	expectError(t, `fun f() {} f(missing);`, diag.CodeUndefinedVariable, "undefined variable 'missing'")
}

func TestFaultStopsExecution(t *testing.T) {
	out, err := runSource(`print 1; print -nil; print 2;`)
	if err == nil {
		t.Fatal("expected fault")
	}
	if out != "1\n" {
		t.Errorf("expected output before fault only, got %q", out)
	}
}

// ---- Builtins ----

func TestClock(t *testing.T) {
	fixed := time.Unix(1700000000, 500000000)
	out, err := runSource(`print clock();`, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatal(err)
	}
	if out != "1700000000.5\n" {
		t.Errorf("got %q", out)
	}
	expectError(t, `clock(1);`, diag.CodeArity, "expected 0 arguments but got 1")
}

func TestNativeErrorBecomesRuntimeError(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	interp.Globals().Define("boom", &NativeFunction{
		Name:   "boom",
		Params: 0,
		Fn: func(*Interpreter, []Value) (Value, error) {
			return nil, errBoom
		},
	})
	err := runOn(interp, "\nboom();")
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if rerr.Code != diag.CodeNative || rerr.Token.Line != 2 {
		t.Errorf("unexpected fault %+v", rerr)
	}
}

var errBoom = errors.New("boom")

// ---- Diagnostics and logging ----

func TestRuntimeErrorDiagnostic(t *testing.T) {
	rerr := expectError(t, "var a = 1;\nprint a + \"x\";", diag.CodeOperandType, "operands")
	d := rerr.Diagnostic()
	if d.Line != 2 || d.Lexeme != "+" || d.Code != diag.CodeOperandType {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if !strings.Contains(d.String(), "line 2") {
		t.Errorf("unexpected diagnostic text %q", d.String())
	}
}

func TestDebugLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := runSource(`fun f() { print 1; } f(); print nope;`, WithLogger(logger))
	if err == nil {
		t.Fatal("expected fault")
	}
	for _, want := range []string{"push scope", "pop scope", "msg=call", "runtime fault", "code=E3001"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("expected log to contain %q:\n%s", want, logs.String())
		}
	}
}
