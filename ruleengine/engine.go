// Package ruleengine 把文本表达式编译为线段树下降查找所用的谓词。
// 表达式面向节点的聚合边界求值，可用变量：minValue、maxValue、sumValue、covered、uncovered、length。
// 变量名避开了 expr 内置的 min/max/sum 函数。
// 例如 "minValue <= 0 && maxValue >= 0" 匹配值为 0 的叶子，"uncovered > 0" 匹配未被覆盖的叶子。
package ruleengine

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/wyfcoding/lazyseg/algorithm/segtree"
	"github.com/wyfcoding/lazyseg/xerrors"
)

// Rule 规则定义
type Rule struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Expression string         `json:"expression"` // DSL 表达式
	Metadata   map[string]any `json:"metadata"`   // 附加属性
	Priority   int            `json:"priority"`   // 优先级，数值越大越靠前
}

// Bounds 是表达式的求值环境。
type Bounds struct {
	Min       int64 `expr:"minValue"`
	Max       int64 `expr:"maxValue"`
	Sum       int64 `expr:"sumValue"`
	Covered   int64 `expr:"covered"`
	Uncovered int64 `expr:"uncovered"`
	Length    int64 `expr:"length"`
}

// BoundsOf 把聚合转换为求值环境。
func BoundsOf(a segtree.Aggregate) Bounds {
	return Bounds{
		Min:       a.Min,
		Max:       a.Max,
		Sum:       a.Sum,
		Covered:   a.Covered,
		Uncovered: a.Uncovered(),
		Length:    a.Length,
	}
}

// Engine 核心引擎
type Engine struct {
	mu       sync.RWMutex
	rules    map[string]*Rule
	programs map[string]*vm.Program
}

func NewEngine() *Engine {
	return &Engine{
		rules:    make(map[string]*Rule),
		programs: make(map[string]*vm.Program),
	}
}

// AddRule 添加或更新规则，表达式必须在 Bounds 环境下求值为 bool。
func (e *Engine) AddRule(r Rule) error {
	program, err := expr.Compile(r.Expression, expr.Env(Bounds{}), expr.AsBool())
	if err != nil {
		return xerrors.ErrRuleCompile.WithCause(err).WithContext("rule", r.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules[r.ID] = &r
	e.programs[r.ID] = program
	return nil
}

// RemoveRule 删除规则。
func (e *Engine) RemoveRule(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rules, id)
	delete(e.programs, id)
}

func (e *Engine) program(id string) (*vm.Program, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	program, ok := e.programs[id]
	if !ok {
		return nil, xerrors.ErrRuleNotFound.With("rule", id)
	}
	return program, nil
}

// Evaluate 针对单个聚合执行规则
func (e *Engine) Evaluate(id string, a segtree.Aggregate) (bool, error) {
	program, err := e.program(id)
	if err != nil {
		return false, err
	}
	return run(program, a)
}

func run(program *vm.Program, a segtree.Aggregate) (bool, error) {
	output, err := expr.Run(program, BoundsOf(a))
	if err != nil {
		return false, fmt.Errorf("execution error: %w", err)
	}
	passed, _ := output.(bool)
	return passed, nil
}

// Predicate 返回规则对应的下降谓词。
// 取出的是编译后的程序快照，之后对同名规则的修改不会影响已返回的谓词。
// 执行出错时视为不匹配。
func (e *Engine) Predicate(id string) (segtree.Predicate, error) {
	program, err := e.program(id)
	if err != nil {
		return nil, err
	}
	return func(a segtree.Aggregate) bool {
		ok, err := run(program, a)
		return err == nil && ok
	}, nil
}

// Rules 按优先级从高到低返回所有规则，优先级相同时按 ID 排序。
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b Rule) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Matching 返回对该聚合判定为 true 的规则 ID，顺序同 Rules。
func (e *Engine) Matching(a segtree.Aggregate) []string {
	var ids []string
	for _, r := range e.Rules() {
		if ok, err := e.Evaluate(r.ID, a); err == nil && ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
