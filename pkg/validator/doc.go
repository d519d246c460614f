// Package validator checks arbitrary nested values against declarative schemas.
//
// A Schema declares the primitive Type of a value, the named rules it must
// satisfy, and for objects an ordered list of field sub-schemas (for arrays,
// an Items sub-schema). Rules are referenced by name and resolved at
// validation time against the Engine's registries, so applications can add
// their own checks without touching the interpreter.
//
// # Architecture
//
//   - Registry[F]   – name to function mapping, one for sync and one for async rules
//   - Engine        – the schema interpreter; owns both registries and a Logger
//   - Schema        – Type, Rules, AsyncRules, Fields, Items
//   - Result        – Valid flag plus ordered ValidationErrors
//
// Every Engine is seeded with the built-in rules: required, email, min, max,
// minLength, maxLength, pattern, oneOf, alphanumeric, url, uuid and
// strongPassword. The type check is performed by the interpreter itself and is
// not a registry rule.
//
// # Usage
//
//	engine := validator.New(validator.WithLogger(log))
//	engine.AddAsyncRule("uniqueEmail", users.EmailAvailable)
//
//	schema := validator.Schema{
//	    Type: validator.TypeObject,
//	    Fields: validator.Fields{
//	        {Name: "email", Schema: validator.Schema{
//	            Type:       validator.TypeString,
//	            Rules:      []validator.RuleRef{validator.Rule("required"), validator.Rule("email")},
//	            AsyncRules: []validator.RuleRef{validator.Rule("uniqueEmail")},
//	        }},
//	        {Name: "age", Schema: validator.Schema{
//	            Type:  validator.TypeNumber,
//	            Rules: []validator.RuleRef{validator.Rule("min", "min", 18)},
//	        }},
//	    },
//	}
//
//	res, err := engine.ValidateAsync(ctx, payload, schema)
//
// Schemas can also be loaded from YAML or JSON files with ParseSchemaYAML,
// LoadSchemaFile and LoadSchemaDir; field order in the file is preserved.
// DecodeJSON turns a request body into a value tree the engine understands.
//
// # Error Handling
//
// Type mismatches and failed rules are reported as data in Result, never as
// errors. A rule name missing from the registry is logged through Logger.Warn
// and treated as satisfied, unless the engine was built WithStrictMode. A
// panicking sync rule propagates to the caller; an async rule that returns an
// error or panics makes ValidateAsync return an error wrapping ErrRuleFault.
//
// # Ordering
//
// For each node the type check runs first; on mismatch the node's rules and
// children are skipped. Otherwise the node's rules run in declared order,
// then object fields in declaration order (or array items in index order).
// Async rules run concurrently after the sync pass and their errors are
// appended in the same depth-first declared order, whatever order they
// complete in.
package validator
