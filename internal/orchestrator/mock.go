package orchestrator

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/decompose"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

const mockComponent = `import React, { useState } from 'react';

function MockComponent() {
  const [data, setData] = useState([]);

  return (
    <div className="p-6 max-w-4xl mx-auto">
      <h1 className="text-3xl font-bold mb-4 text-orange-600">
        Mock Response - Configure AWS Credentials
      </h1>
      <div className="bg-yellow-50 border-l-4 border-yellow-400 p-4 mb-4">
        <p className="text-sm text-yellow-700">
          <strong>Note:</strong> This is a mock response. To enable real AI code generation:
        </p>
        <ol className="list-decimal list-inside text-sm text-yellow-700 mt-2">
          <li>Set AWS_ACCESS_KEY_ID in the environment</li>
          <li>Set AWS_SECRET_ACCESS_KEY in the environment</li>
          <li>Ensure AWS Bedrock access in us-west-2</li>
        </ol>
      </div>
      <p className="text-gray-700">
        Your request: <strong>%s</strong>
      </p>
    </div>
  );
}

export default MockComponent;`

const mockExplanation = `**MOCK MODE ACTIVE**

AWS Bedrock credentials are not configured. This is a sample multi-agent response.

**Your Request:** %s

**Execution Plan:**
- Task Type: %s
- Complexity: %s
- Agents Involved: %s

**To Enable Real AI Generation:**
1. Configure AWS_ACCESS_KEY_ID in the environment
2. Configure AWS_SECRET_ACCESS_KEY in the environment
3. Ensure you have AWS Bedrock model access in us-west-2 region

**Multi-Agent Features (when enabled):**
- Code Generation Agent: Creates production-ready code
- Testing Agent: Generates comprehensive test suites
- Security Agent: Performs security audits
- Performance Agent: Optimizes for speed and efficiency
- Documentation Agent: Creates detailed documentation`

// mockOrchestration builds the canned response served without credentials.
// It makes no gateway calls and is not recorded in the history.
func (o *Orchestrator) mockOrchestration(request string, opts models.Options) *models.FinalResult {
	plan := decompose.DefaultPlan(request, opts)

	contributions := make([]string, len(plan.RequiredAgents))
	copy(contributions, plan.RequiredAgents)

	return &models.FinalResult{
		IntegratedResult: models.IntegratedResult{
			Code: []string{fmt.Sprintf(mockComponent, api.Truncate(request, 100))},
			Explanation: fmt.Sprintf(mockExplanation,
				request, plan.TaskType, plan.Complexity, strings.Join(plan.RequiredAgents, ", ")),
			Language:           "javascript",
			AgentContributions: contributions,
			ExecutionPlan:      plan,
		},
		Status:    models.StatusCompleted,
		Timestamp: o.now().UTC(),
		MockMode:  true,
	}
}
