package challenge

import "github.com/JamiaHub/JAMIAHUB/sandbox"

// Catalog returns the built-in challenges in presentation order. Each call
// builds fresh values so callers cannot alter the catalog.
func Catalog() []Challenge {
	return []Challenge{
		{
			Title:       "Sum of Array",
			Description: "Return the sum of numbers in the array.",
			Signature:   "function solve(nums: number[]): number",
			Examples:    []string{"solve([1,2,3]) -> 6", "solve([]) -> 0"},
			Hint:        "Use Array.prototype.reduce or a simple loop.",
			Starter:     "// Return the sum of numbers in the array\n\nfunction solve(nums) {\n// your code here\n return 0;\n}\n\nreturn solve;",
			Tests: []sandbox.TestCase{
				{Name: "empty array", Args: []any{[]any{}}, Expected: 0},
				{Name: "small array", Args: []any{[]any{1, 2, 3}}, Expected: 6},
				{Name: "negatives", Args: []any{[]any{-1, 5, -4}}, Expected: 0},
			},
		},
		{
			Title:       "Reverse String",
			Description: "Return the reversed string.",
			Signature:   "function solve(s: string): string",
			Examples:    []string{"solve('abc') -> 'cba'"},
			Hint:        "Strings can be split into arrays, reversed, and joined back.",
			Starter:     "function solve(s) {\n // implement me\n return '';\n}\n\nreturn solve;",
			Tests: []sandbox.TestCase{
				{Name: "empty", Args: []any{""}, Expected: ""},
				{Name: "word", Args: []any{"hello"}, Expected: "olleh"},
			},
		},
		{
			Title: "FizzBuzz Label",
			Description: "Given n, return an array of length n where multiples of 3 are 'Fizz', " +
				"multiples of 5 are 'Buzz', multiples of both 'FizzBuzz', otherwise the number.",
			Signature: "function solve(n: number): Array<string|number>",
			Examples:  []string{"solve(5) -> [1,2,'Fizz',4,'Buzz']"},
			Hint:      "Classic FizzBuzz: check 15 before 3 and 5.",
			Starter:   "function solve(n) {\n // implement me\n return []; \n}\n\nreturn solve;",
			Tests: []sandbox.TestCase{
				{Name: "n=1", Args: []any{1}, Expected: []any{1}},
				{Name: "n=5", Args: []any{5}, Expected: []any{1, 2, "Fizz", 4, "Buzz"}},
				{Name: "n=15", Args: []any{15}, Expected: fizzBuzz(15)},
			},
		},
	}
}

func fizzBuzz(n int) []any {
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		switch {
		case i%15 == 0:
			out = append(out, "FizzBuzz")
		case i%3 == 0:
			out = append(out, "Fizz")
		case i%5 == 0:
			out = append(out, "Buzz")
		default:
			out = append(out, i)
		}
	}
	return out
}
