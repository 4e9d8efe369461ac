package decompose

// planPrompt is the supervisor's planning prompt.
// Arguments: persona, request, tests, security, performance, docs.
const planPrompt = `%s

USER REQUEST:
%s

OPTIONS:
- Include Tests: %t
- Include Security Review: %t
- Include Performance Optimization: %t
- Include Documentation: %t

TASK:
Analyze this request and create a detailed execution plan. Determine:
1. Which specialized agents should be involved
2. The sequence of agent execution
3. Dependencies between agent tasks
4. Expected deliverables from each agent
5. Collaboration requirements between agents

Available agents: %s

Respond in the following JSON format:
{
  "taskType": "code_generation|debugging|architecture|refactoring|fullstack",
  "complexity": "simple|moderate|complex",
  "requiredAgents": ["agent1", "agent2", ...],
  "executionSequence": [
    {
      "agent": "agentId",
      "task": "specific task description",
      "dependencies": ["agentId1", ...],
      "priority": 1-5
    }
  ],
  "expectedDeliverables": ["deliverable1", ...],
  "estimatedTime": "time estimate"
}`
