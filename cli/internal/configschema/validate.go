package configschema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"

	"go.eggybyte.com/bootforge/configx"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

	// reservedWords are Java keywords and literals that cannot name a package
	// segment or a type.
	reservedWords = map[string]bool{
		"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
		"case": true, "catch": true, "char": true, "class": true, "const": true,
		"continue": true, "default": true, "do": true, "double": true, "else": true,
		"enum": true, "extends": true, "final": true, "finally": true, "float": true,
		"for": true, "goto": true, "if": true, "implements": true, "import": true,
		"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
		"new": true, "package": true, "private": true, "protected": true, "public": true,
		"return": true, "short": true, "static": true, "strictfp": true, "super": true,
		"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
		"transient": true, "try": true, "void": true, "volatile": true, "while": true,
		"true": true, "false": true, "null": true, "_": true,
	}

	// sharedTypeNames are simple names the generated tree declares or imports
	// in the files that also use the entity type, whatever the persistence.
	sharedTypeNames = setOf(
		// common package
		"ApiResponse", "BusinessException", "GlobalExceptionHandler", "PageRequest", "PageResult", "Result",
		// java.lang
		"Boolean", "Byte", "Character", "Class", "Double", "Enum", "Error", "Exception", "Float",
		"Integer", "Iterable", "Long", "Math", "Number", "Object", "Override", "Record", "Runnable",
		"RuntimeException", "Short", "String", "StringBuilder", "System", "Thread", "Throwable", "Void",
		// imports
		"Api", "ApiModel", "ApiModelProperty", "ApiOperation", "ApiParam", "BindException",
		"CacheEvict", "Cacheable", "Collections", "Collectors", "DeleteMapping", "EnableCaching",
		"EnableSwagger2", "ExceptionHandler", "FieldError", "GetMapping", "HttpServletRequest",
		"HttpStatus", "Instant", "JsonFormat", "List", "LocalDateTime", "Logger", "LoggerFactory",
		"Max", "MethodArgumentNotValidException", "Min", "NotBlank", "Objects", "Optional",
		"PathVariable", "PostMapping", "PutMapping", "RequestBody", "RequestMapping", "ResponseStatus",
		"RestController", "RestControllerAdvice", "Serializable", "Service", "Size",
		"SpringApplication", "SpringBootApplication", "Transactional", "Valid", "Validated",
	)

	persistenceTypeNames = map[Persistence]map[string]bool{
		PersistenceJPA: setOf(
			"Column", "Entity", "GeneratedValue", "GenerationType", "Id", "JpaRepository", "Page",
			"Repository", "Table",
		),
		PersistenceMyBatis: setOf(
			"FieldFill", "IdType", "Mapper", "MapperScan", "Param", "TableField", "TableId", "TableName",
		),
	}

	requestValidator = configx.NewValidator(
		configx.WithFieldNamesFrom("yaml"),
		configx.WithRule("javapackage", func(fl validator.FieldLevel) bool {
			return PackageProblem(fl.Field().String()) == ""
		}),
		configx.WithRule("javaident", func(fl validator.FieldLevel) bool {
			return IdentifierProblem(fl.Field().String()) == ""
		}),
		configx.WithRule("projectname", func(fl validator.FieldLevel) bool {
			return slug.Make(fl.Field().String()) != ""
		}),
	)
)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// PackageProblem explains why pkg is not a usable Java package path, or
// returns "" when it is.
func PackageProblem(pkg string) string {
	if pkg == "" {
		return "package path is empty"
	}
	for i, segment := range strings.Split(pkg, ".") {
		if problem := IdentifierProblem(segment); problem != "" {
			return fmt.Sprintf("segment %d of %q: %s", i+1, pkg, problem)
		}
	}
	return ""
}

// IdentifierProblem explains why name is not a usable Java identifier, or
// returns "" when it is.
func IdentifierProblem(name string) string {
	switch {
	case name == "":
		return "empty identifier"
	case name[0] >= '0' && name[0] <= '9':
		return fmt.Sprintf("%q starts with a digit", name)
	case !identifierPattern.MatchString(name):
		return fmt.Sprintf("%q contains characters not allowed in an identifier", name)
	case reservedWords[name]:
		return fmt.Sprintf("%q is a reserved word", name)
	}
	return ""
}

// TypeNameProblem explains why name cannot be the entity type of a project
// using persistence p, or returns "" when it can. Names already declared or
// imported next to the entity would not compile.
func TypeNameProblem(name string, p Persistence) string {
	if problem := IdentifierProblem(name); problem != "" {
		return problem
	}
	if sharedTypeNames[name] || persistenceTypeNames[p][name] {
		return fmt.Sprintf("%q clashes with a type used by the generated code", name)
	}
	return ""
}

// validateNormalized runs the struct rules and turns each failure into a diagnostic.
func validateNormalized(in *normalized, diags *Diagnostics) {
	err := configx.ValidateStruct(requestValidator, in)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		diags.AddError(err.Error(), "", "")
		return
	}
	for _, fe := range fieldErrs {
		path := configx.FieldPath(fe)
		message, suggestion := describe(fe)
		diags.AddError(message, path, suggestion)
	}
}

func describe(fe validator.FieldError) (message, suggestion string) {
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field()), ""
	case "max":
		return fmt.Sprintf("%s is longer than %s characters", fe.Field(), fe.Param()), ""
	case "javapackage":
		return PackageProblem(value), "Use dot-separated lower-case identifiers, e.g. com.example.shop"
	case "javaident":
		return IdentifierProblem(value), "Use a Java identifier, e.g. OrderItem"
	case "projectname":
		return fmt.Sprintf("%q has no letters or digits to name the project after", value), "Use letters and digits, e.g. order-service"
	case "oneof":
		return fmt.Sprintf("unknown value %q", value), "Expected one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("%s failed rule %q", fe.Field(), fe.Tag()), ""
}
