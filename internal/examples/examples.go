// Package examples provides the built-in example problems a user can load
// into a session instead of typing code.
package examples

// Problem is a titled code sample written in Language.
type Problem struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

var problems = []Problem{
	{
		Title: "Java method for addition",
		Code: `public int add(int a, int b) {
  return a + b;
}`,
		Language: "java",
	},
	{
		Title: "Python function for calculating fibonacci series",
		Code: `def fibonacci(n):
    if n <= 1:
        return n
    return fibonacci(n-1) + fibonacci(n-2)`,
		Language: "python",
	},
	{
		Title: "C++ program to find factorial of a number",
		Code: `int factorial(int n) {
    if (n == 0) {
        return 1;
    }
    return n * factorial(n - 1);
}`,
		Language: "c++",
	},
	{
		Title: "C++ program to check if a number is odd or even",
		Code: `bool isEven(int n) {
    return n % 2 == 0;
}`,
		Language: "c++",
	},
}

// All returns the example problems in display order.
func All() []Problem {
	out := make([]Problem, len(problems))
	copy(out, problems)
	return out
}

// Get returns the problem at index i (0-based).
func Get(i int) (Problem, bool) {
	if i < 0 || i >= len(problems) {
		return Problem{}, false
	}
	return problems[i], true
}
