package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
)

func newAPICmd() *cobra.Command {
	var (
		fields      []string
		typedFields []string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "api <METHOD> <path>",
		Short: "任意のREST APIを呼び出す",
		Long: `GitHub REST APIのエンドポイントを直接呼び出します。
GET と DELETE ではパラメータをクエリ文字列に、それ以外ではJSONボディにします。

例:
  ghkit api GET repos/octocat/hello-world/labels -f per_page=100
  ghkit api POST repos/octocat/hello-world/labels -f name=bug -f color=d73a4a
  ghkit api GET repos/octocat/hello-world --format object`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := github.ParseFormat(format)
			if err != nil {
				return err
			}

			method := strings.ToUpper(args[0])
			path := strings.TrimPrefix(args[1], "/")

			params, err := parseFields(fields, typedFields)
			if err != nil {
				return err
			}

			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			var query, body interface{}
			if len(params) > 0 {
				if method == http.MethodGet || method == http.MethodDelete {
					query = toQuery(params)
				} else {
					body = params
				}
			}

			res, err := client.Call(cmd.Context(), method, path, query, body, f)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "文字列パラメータ (key=value)")
	cmd.Flags().StringArrayVarP(&typedFields, "typed-field", "F", nil, "型付きパラメータ (key=value)。true/false/null/数値はJSONの値になる")
	cmd.Flags().StringVar(&format, "format", "typed", "レスポンス形式 (typed, object, array, string)")

	return cmd
}

// parseFields は key=value の一覧をパラメータにする
// -F の値はJSONとして解釈できればその値を使う
func parseFields(raw, typed []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(raw)+len(typed))

	for _, f := range raw {
		key, value, err := splitField(f)
		if err != nil {
			return nil, err
		}
		params[key] = value
	}

	for _, f := range typed {
		key, value, err := splitField(f)
		if err != nil {
			return nil, err
		}
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		params[key] = v
	}

	return params, nil
}

func splitField(f string) (string, string, error) {
	key, value, ok := strings.Cut(f, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid field %q: expected key=value", f)
	}
	return key, value, nil
}

func toQuery(params map[string]interface{}) url.Values {
	q := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		q.Set(k, fmt.Sprint(v))
	}
	return q
}
