package cmd

import (
	"github.com/spf13/cobra"

	"fairshare/web"
)

func serverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `This command starts the web server for the application.`,
		Run: func(cmd *cobra.Command, args []string) {
			isDev := cmd.Flags().Lookup("dev").Value.String() == "true"
			port := cmd.Flags().Lookup("port").Value.String()
			mqMode := cmd.Flags().Lookup("mq").Value.String()
			dbMode := cmd.Flags().Lookup("db").Value.String()

			// Start the web server
			web.Serve(web.ServiceConfig{
				IsDev:  isDev,
				Port:   port,
				MqMode: web.MqMode(mqMode),
				DBMode: web.DBMode(dbMode),
			})
		},
	}

	cmd.Flags().Bool("dev", true, "Run in development mode")
	cmd.Flags().String("port", "8080", "Port to run the web server on")
	cmd.Flags().String("mq", "go_chan", "Message queue mode (go_chan, rabbitmq, gcp_pub_sub)")
	cmd.Flags().String("db", "memory", "Database mode (memory, postgres)")

	return cmd
}
