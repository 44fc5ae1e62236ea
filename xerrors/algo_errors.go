package xerrors

var (
	// ErrEmptyData 输入数据为空。
	ErrEmptyData = New(ErrInvalidArg, 400001, "empty data", "input data must not be empty", nil)
	// ErrInvalidInput 输入格式错误。
	ErrInvalidInput = New(ErrInvalidArg, 400002, "invalid input", "check your input parameters", nil)
	// ErrInvalidLength 覆盖型线段树的叶子长度必须为正。
	ErrInvalidLength = New(ErrInvalidArg, 400003, "invalid leaf length", "coverage leaf lengths must be positive", nil)
	// ErrNilPolicy 构建线段树时未指定聚合策略。
	ErrNilPolicy = New(ErrInvalidArg, 400004, "nil policy", "a tree needs exactly one aggregation policy", nil)
	// ErrPolicyMismatch 操作与树的聚合策略不匹配。
	ErrPolicyMismatch = New(ErrFailedPrecondition, 400005, "policy mismatch", "operation is not defined for this aggregation policy", nil)
	// ErrRuleCompile 规则表达式编译失败。
	ErrRuleCompile = New(ErrInvalidArg, 400006, "rule compile failed", "expression must evaluate to bool over minValue, maxValue, sumValue, covered, uncovered, length", nil)
	// ErrRuleNotFound 规则不存在。
	ErrRuleNotFound = New(ErrNotFound, 404001, "rule not found", "register the rule before using it", nil)
	// ErrInvariant 线段树不变量被破坏。
	ErrInvariant = New(ErrInternal, 500001, "invariant violated", "node aggregate disagrees with its children", nil)
	// ErrPoolClosed 任务池已关闭。
	ErrPoolClosed = New(ErrUnavailable, 503001, "worker pool is closed", "create a new pool to run more jobs", nil)
)
