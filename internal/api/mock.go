package api

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const mockReactSample = `import React, { useState } from 'react';

function ExampleComponent() {
  const [count, setCount] = useState(0);

  return (
    <div className="p-4">
      <h1 className="text-2xl font-bold mb-4">Example Component</h1>
      <p className="mb-2">Count: {count}</p>
      <button
        onClick={() => setCount(count + 1)}
        className="px-4 py-2 bg-blue-500 text-white rounded hover:bg-blue-600"
      >
        Increment
      </button>
    </div>
  );
}

export default ExampleComponent;`

const mockPythonSample = `def example_function():
    """
    Example Python function
    """
    result = []
    for i in range(10):
        result.append(i * 2)
    return result

if __name__ == "__main__":
    print(example_function())`

const mockScriptSample = `// Example JavaScript code
function exampleFunction() {
  console.log("Hello from mock response!");
  return "This is a mock response - configure AWS credentials for real AI generation";
}

exampleFunction();`

// MockGenerator returns canned output without any network access.
// It is used when no AWS credentials are configured.
type MockGenerator struct {
	logger *zap.Logger
}

// NewMockGenerator creates a mock generator.
func NewMockGenerator(logger *zap.Logger) *MockGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockGenerator{logger: logger}
}

// Generate returns a sample keyed off the prompt's wording. It never fails.
func (m *MockGenerator) Generate(_ context.Context, prompt, model string) (*Generation, error) {
	m.logger.Debug("generating mock response", zap.String("prompt", Truncate(prompt, 50)))

	lower := strings.ToLower(prompt)
	code := mockScriptSample
	language := "javascript"
	switch {
	case strings.Contains(lower, "react"), strings.Contains(lower, "component"):
		code = mockReactSample
	case strings.Contains(lower, "python"):
		code = mockPythonSample
		language = "python"
	}

	explanation := fmt.Sprintf(`**MOCK MODE**: AWS Bedrock credentials are not configured. This is a sample response.

To enable real AI code generation:
1. Set AWS_ACCESS_KEY_ID in your environment or .env file
2. Set AWS_SECRET_ACCESS_KEY in your environment or .env file
3. Ensure you have access to AWS Bedrock models in %s

Prompt received: %s...`, DefaultRegion, Truncate(prompt, 100))

	return &Generation{
		Code:        []string{code},
		Explanation: explanation,
		Language:    language,
		Model:       model,
		MockMode:    true,
	}, nil
}
