package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/splitr/splitr/internal/rpc"
)

func init() {
	rootCmd.AddCommand(balancesCmd)
	balancesCmd.Flags().String("server", "http://localhost:8080", "Splitr server URL")
	balancesCmd.Flags().String("token", "", "Session token (default $SPLITR_TOKEN)")
	balancesCmd.Flags().StringP("group", "g", "", "Show pairwise balances of one group")
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show balances from a running server",
	Long: `Print the caller's balance summary across all groups, or the pairwise
balances of a single group with --group.`,
	Args: cobra.NoArgs,
	RunE: runBalances,
}

func runBalances(cmd *cobra.Command, args []string) error {
	serverURL, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	groupID, _ := cmd.Flags().GetString("group")
	if token == "" {
		token = os.Getenv("SPLITR_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("session token required: splitr balances --token <token>")
	}

	client := rpc.NewBalanceServiceClient(http.DefaultClient, strings.TrimRight(serverURL, "/"))
	out := cmd.OutOrStdout()

	if groupID != "" {
		req := connect.NewRequest(&rpc.GetGroupBalancesRequest{GroupID: groupID})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.GetGroupBalances(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("get group balances: %w", err)
		}
		return printGroupBalances(out, resp.Msg)
	}

	req := connect.NewRequest(&rpc.GetUserBalancesRequest{})
	req.Header().Set("Authorization", "Bearer "+token)
	resp, err := client.GetUserBalances(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("get user balances: %w", err)
	}
	return printUserBalances(out, resp.Msg)
}

func printGroupBalances(w io.Writer, resp *rpc.GetGroupBalancesResponse) error {
	if len(resp.Balances) == 0 {
		fmt.Fprintln(w, "All settled up.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tAMOUNT")
	for _, e := range resp.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.FromUserCode, e.ToUserCode, e.Amount)
	}
	if resp.Simplified {
		fmt.Fprintln(tw, "\t\t(simplified)")
	}
	return tw.Flush()
}

func printUserBalances(w io.Writer, resp *rpc.GetUserBalancesResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tBALANCE")
	for _, g := range resp.GroupBalances {
		fmt.Fprintf(tw, "%s\t%s\n", g.GroupName, g.Balance)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "You are owed\t%s\n", resp.TotalOwedByOthers)
	fmt.Fprintf(tw, "You owe\t%s\n", resp.TotalOwedToOthers)
	fmt.Fprintf(tw, "Net\t%s\n", resp.NetBalance)
	return tw.Flush()
}
