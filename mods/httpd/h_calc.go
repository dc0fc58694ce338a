package httpd

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/machbase/neo-calc/mods/calc"
	"github.com/machbase/neo-calc/mods/rpn"
)

type CalcRequest struct {
	Expr     string `form:"expr" json:"expr"`
	Notation string `form:"notation" json:"notation"`
}

type BatchRequest struct {
	Exprs []string `json:"exprs"`
}

func (svr *httpd) handleHealthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "reason": "success"})
}

func (svr *httpd) handleMetrics(ctx *gin.Context) {
	buf := &bytes.Buffer{}
	svr.calc.WriteMetrics(buf)
	ctx.Data(http.StatusOK, "application/json", buf.Bytes())
}

func (svr *httpd) handleConvert(ctx *gin.Context) {
	tick := time.Now()
	rsp := gin.H{"success": false, "reason": "not specified"}

	req := CalcRequest{}
	if err := ctx.ShouldBind(&req); err != nil {
		rsp["reason"] = err.Error()
		rsp["elapse"] = time.Since(tick).String()
		ctx.JSON(http.StatusBadRequest, rsp)
		return
	}

	postfix, err := svr.calc.Convert(req.Expr)
	if err != nil {
		replyError(ctx, rsp, tick, err)
		return
	}
	rsp["success"] = true
	rsp["reason"] = "success"
	rsp["data"] = gin.H{"infix": req.Expr, "postfix": postfix}
	rsp["elapse"] = time.Since(tick).String()
	ctx.JSON(http.StatusOK, rsp)
}

func (svr *httpd) handleEval(ctx *gin.Context) {
	tick := time.Now()
	rsp := gin.H{"success": false, "reason": "not specified"}

	req := CalcRequest{}
	if err := ctx.ShouldBind(&req); err != nil {
		rsp["reason"] = err.Error()
		rsp["elapse"] = time.Since(tick).String()
		ctx.JSON(http.StatusBadRequest, rsp)
		return
	}

	data := gin.H{}
	var result float64
	var err error
	switch strings.ToLower(req.Notation) {
	case "", "infix":
		r := svr.calc.Eval(req.Expr)
		if r.Err == nil {
			data["infix"] = req.Expr
			data["postfix"] = r.Postfix
		}
		result, err = r.Value, r.Err
	case "postfix":
		data["postfix"] = req.Expr
		result, err = svr.calc.EvaluatePostfix(req.Expr)
	default:
		rsp["reason"] = "unknown notation " + strconv.Quote(req.Notation)
		rsp["elapse"] = time.Since(tick).String()
		ctx.JSON(http.StatusBadRequest, rsp)
		return
	}
	if err != nil {
		replyError(ctx, rsp, tick, err)
		return
	}
	data["result"] = jsonValue(result)
	rsp["success"] = true
	rsp["reason"] = "success"
	rsp["data"] = data
	rsp["elapse"] = time.Since(tick).String()
	ctx.JSON(http.StatusOK, rsp)
}

func (svr *httpd) handleBatch(ctx *gin.Context) {
	tick := time.Now()
	rsp := gin.H{"success": false, "reason": "not specified"}

	req := BatchRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		rsp["reason"] = err.Error()
		rsp["elapse"] = time.Since(tick).String()
		ctx.JSON(http.StatusBadRequest, rsp)
		return
	}

	results, err := svr.calc.Batch(ctx.Request.Context(), req.Exprs)
	if err != nil {
		rsp["reason"] = err.Error()
		rsp["elapse"] = time.Since(tick).String()
		ctx.JSON(http.StatusServiceUnavailable, rsp)
		return
	}
	list := make([]gin.H, len(results))
	failed := 0
	for i, r := range results {
		list[i] = batchItem(r)
		if r.Err != nil {
			failed++
		}
	}
	rsp["success"] = true
	rsp["reason"] = "success"
	rsp["data"] = gin.H{"results": list, "failed": failed}
	rsp["elapse"] = time.Since(tick).String()
	ctx.JSON(http.StatusOK, rsp)
}

func batchItem(r calc.Result) gin.H {
	item := gin.H{"expr": r.Expr}
	if r.Err != nil {
		item["error"] = r.Err.Error()
		return item
	}
	item["postfix"] = r.Postfix
	item["result"] = jsonValue(r.Value)
	return item
}

func replyError(ctx *gin.Context, rsp gin.H, tick time.Time, err error) {
	rsp["reason"] = err.Error()
	var se *rpn.SyntaxError
	if errors.As(err, &se) && se.Pos >= 0 {
		rsp["data"] = gin.H{"pos": se.Pos}
	}
	rsp["elapse"] = time.Since(tick).String()
	ctx.JSON(statusCode(err), rsp)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, rpn.ErrEmptyExpression),
		errors.Is(err, rpn.ErrUnbalancedParentheses),
		errors.Is(err, rpn.ErrInsufficientOperands),
		errors.Is(err, rpn.ErrMalformedExpression):
		return http.StatusBadRequest
	case errors.Is(err, rpn.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// jsonValue turns non-finite results into strings, json has no number for them.
func jsonValue(v float64) any {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return v
}
