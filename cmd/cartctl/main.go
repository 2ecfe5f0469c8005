// Command cartctl is a terminal storefront client. It keeps a cart in a local
// JSON file and submits it as a quote request.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/princinho/sahomattress/cart"
	"github.com/princinho/sahomattress/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cartPath string
	apiURL   string
	log      *zap.Logger

	manager *cart.Manager
	client  *storefrontClient
}

func defaultCartPath() string {
	if p := os.Getenv("SAHO_CART"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return cart.StorageKey + ".json"
	}
	return filepath.Join(dir, "sahomattress", cart.StorageKey+".json")
}

func defaultAPIURL() string {
	if u := os.Getenv("SAHO_API"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newRootCmd(log *zap.Logger) *cobra.Command {
	a := &app{log: log}

	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Manage a storefront cart and request a quote",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.manager = cart.NewManager(cart.NewFileStorage(a.cartPath), a.log)
			a.client = newStorefrontClient(a.apiURL)
		},
	}
	root.PersistentFlags().StringVar(&a.cartPath, "cart", defaultCartPath(), "cart file")
	root.PersistentFlags().StringVar(&a.apiURL, "api", defaultAPIURL(), "storefront base url")

	root.AddCommand(a.addCmd(), a.removeCmd(), a.setCmd(), a.listCmd(), a.quoteCmd())
	return root
}

func (a *app) addCmd() *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if qty < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}
			ctx := cmd.Context()
			p, err := a.client.Product(ctx, args[0])
			if err != nil {
				return err
			}
			urls := make([]string, 0, len(p.Images))
			for _, id := range p.Images {
				urls = append(urls, a.client.imageURL(id))
			}
			err = a.manager.AddItem(ctx, p.Id.Hex(), qty, cart.ItemMeta{
				Title:     p.Name,
				Price:     p.Price,
				ImageURLs: urls,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d x %s\n", qty, p.Name)
			return nil
		},
	}
	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "quantity to add")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.manager.RemoveItem(cmd.Context(), args[0])
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return a.manager.UpdateItemQty(cmd.Context(), args[0], qty)
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var discount int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCart(cmd.OutOrStdout(), a.manager.Snapshot(cmd.Context()), discount)
			return nil
		},
	}
	cmd.Flags().IntVar(&discount, "discount", 0, "display discount in percent")
	return cmd
}

func printCart(w io.Writer, snap models.CartSnapshot, discount int) {
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tUNIT\tTOTAL")
	for _, it := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\n", it.ID, it.Title, it.Quantity, it.Price, it.LineTotal().StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(w, "subtotal: %s\n", snap.Total.StringFixed(2))
	if discount > 0 {
		fmt.Fprintf(w, "with %d%% off: %s\n", discount, cart.DisplayPrice(snap.Total, discount).StringFixed(2))
	}
}

func (a *app) quoteCmd() *cobra.Command {
	var contact models.Contact
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Send the cart as a quote request and empty it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items := a.manager.Items(ctx)
			if len(items) == 0 {
				return fmt.Errorf("cart is empty")
			}
			if err := a.client.SubmitQuote(ctx, contact, items); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "quote request sent")
			return a.manager.Clear(ctx)
		},
	}
	cmd.Flags().StringVar(&contact.Name, "name", "", "your name")
	cmd.Flags().StringVar(&contact.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&contact.Email, "email", "", "email address")
	cmd.Flags().StringVar(&contact.Message, "message", "", "optional message")
	return cmd
}

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := newRootCmd(log).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		log.Sync()
		os.Exit(1)
	}
}
