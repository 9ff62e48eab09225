package auth

import (
	"fmt"

	"libraryapi/internal/logger"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// PolicyAdmin is the policy required for catalog writes.
const PolicyAdmin = "esadmin"

// AdminClaim is the claim PolicyAdmin checks by default.
const AdminClaim = "esadmin"

// Authorizer evaluates named policies against an identity.
type Authorizer interface {
	Evaluate(id Identity, policy string) bool
}

type policyEvaluator struct {
	programs map[string]*vm.Program
	logger   logger.Logger
}

func policyEnv(id Identity) map[string]any {
	claims := id.Claims
	if claims == nil {
		claims = map[string]string{}
	}
	return map[string]any{
		"authenticated": id.Authenticated,
		"email":         id.Email,
		"user_id":       id.UserID,
		"claims":        claims,
	}
}

// NewPolicyEvaluator compiles every policy expression up front.
func NewPolicyEvaluator(policies map[string]string, log logger.Logger) (Authorizer, error) {
	programs := make(map[string]*vm.Program, len(policies))
	for name, source := range policies {
		program, err := expr.Compile(source, expr.Env(policyEnv(Anonymous())), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("failed to compile policy %q: %w", name, err)
		}
		programs[name] = program
	}

	return &policyEvaluator{
		programs: programs,
		logger:   log.With(logger.String("component", "policy_evaluator")),
	}, nil
}

func (e *policyEvaluator) Evaluate(id Identity, policy string) bool {
	program, ok := e.programs[policy]
	if !ok {
		e.logger.Warn("unknown authorization policy", logger.String("policy", policy))
		return false
	}

	result, err := expr.Run(program, policyEnv(id))
	if err != nil {
		e.logger.Error("failed to evaluate policy",
			logger.String("policy", policy),
			logger.Error(err))
		return false
	}

	allowed, _ := result.(bool)
	return allowed
}
