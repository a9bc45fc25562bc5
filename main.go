package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yatube/yatube/config"
	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/web"
	"github.com/yatube/yatube/web/service"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func initLogger() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	initLogger()
	defer logger.CloseLogger()

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()

	server := web.NewServer(nil)
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP, restarting the web server")
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(nil)
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			logger.Info("Received", sig, "shutting down")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

// openDB prepares the database for the maintenance commands.
func openDB() bool {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return false
	}
	return true
}

func migrateDb() {
	if !openDB() {
		os.Exit(1)
	}
	defer database.CloseDB()
	fmt.Println("Start migrating database...")
	if err := database.Checkpoint(); err != nil {
		fmt.Println("checkpoint failed:", err)
	}
	fmt.Println("Migration done!")
}

func resetSetting() {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	settingService := service.SettingService{}
	err := settingService.ResetSettings()
	if err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func showSetting(asJSON bool) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	settingService := service.SettingService{}
	allSetting, err := settingService.GetAllSetting()
	if err != nil {
		fmt.Println("get current settings failed, error info:", err)
		return
	}
	if asJSON {
		data, err := json.MarshalIndent(allSetting, "", "  ")
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(string(data))
		return
	}
	fmt.Println("current settings as follows:")
	fmt.Println("listen:", allSetting.WebListen)
	fmt.Println("port:", allSetting.WebPort)
	fmt.Println("certFile:", allSetting.WebCertFile)
	fmt.Println("keyFile:", allSetting.WebKeyFile)
	fmt.Println("sessionMaxAge:", allSetting.SessionMaxAge)
	fmt.Println("pageSize:", allSetting.PageSize)
	fmt.Println("timeLocation:", allSetting.TimeLocation)
	fmt.Println("resetTokenTTL:", allSetting.ResetTokenTTL)
	fmt.Println("siteURL:", allSetting.SiteURL)
	fmt.Println("trustedProxies:", allSetting.TrustedProxies)
}

func updateSetting(port int, pageSize int, siteURL string, trustedProxies *string) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	settingService := service.SettingService{}

	if port > 0 {
		err := settingService.SetPort(port)
		if err != nil {
			fmt.Println("set port failed:", err)
		} else {
			fmt.Printf("set port %v success\n", port)
		}
	}
	if pageSize > 0 {
		err := settingService.SetPageSize(pageSize)
		if err != nil {
			fmt.Println("set page size failed:", err)
		} else {
			fmt.Printf("set page size %v success\n", pageSize)
		}
	}
	if siteURL != "" {
		err := settingService.SetSiteURL(siteURL)
		if err != nil {
			fmt.Println("set site url failed:", err)
		} else {
			fmt.Printf("set site url %v success\n", siteURL)
		}
	}
	if trustedProxies != nil {
		err := settingService.SetTrustedProxies(*trustedProxies)
		if err != nil {
			fmt.Println("set trusted proxies failed:", err)
		} else {
			fmt.Printf("set trusted proxies %q success\n", *trustedProxies)
		}
	}
}

func createUser(user *model.User, password string) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	userService := service.UserService{}
	err := userService.Register(user, password)
	if errors.Is(err, service.ErrUsernameTaken) {
		fmt.Printf("user %s already exists\n", user.Username)
	} else if err != nil {
		fmt.Println("create user failed:", err)
	} else {
		fmt.Printf("user %s created\n", user.Username)
	}
}

func deleteUser(username string) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	userService := service.UserService{}
	if err := userService.DeleteUser(username); err != nil {
		fmt.Println("delete user failed:", err)
	} else {
		fmt.Printf("user %s deleted with all posts\n", username)
	}
}

func createGroup(title string, slug string, description string) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	groupService := service.GroupService{}
	group, err := groupService.CreateGroup(title, slug, description)
	if err != nil {
		fmt.Println("create group failed:", err)
	} else {
		fmt.Printf("group %s created with id %d\n", group.Slug, group.Id)
	}
}

func deleteGroup(slug string) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	groupService := service.GroupService{}
	if err := groupService.DeleteGroup(slug); err != nil {
		fmt.Println("delete group failed:", err)
	} else {
		fmt.Printf("group %s deleted, its posts are kept without a group\n", slug)
	}
}

func main() {
	// A missing .env is fine; the environment may be set by other means.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("load .env:", err)
	}

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Set settings",
	}

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset all settings",
		Run: func(cmd *cobra.Command, args []string) {
			resetSetting()
		},
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			asJSON, _ := cmd.Flags().GetBool("json")
			showSetting(asJSON)
		},
	}
	showCmd.Flags().Bool("json", false, "print settings as JSON")

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			port, _ := cmd.Flags().GetInt("port")
			pageSize, _ := cmd.Flags().GetInt("pageSize")
			siteURL, _ := cmd.Flags().GetString("siteURL")
			var trustedProxies *string
			// An empty value clears the list, so only an explicit flag counts.
			if cmd.Flags().Changed("trustedProxies") {
				value, _ := cmd.Flags().GetString("trustedProxies")
				trustedProxies = &value
			}
			updateSetting(port, pageSize, siteURL, trustedProxies)
		},
	}
	updateCmd.Flags().Int("port", 0, "set web port")
	updateCmd.Flags().Int("pageSize", 0, "set number of posts per page")
	updateCmd.Flags().String("siteURL", "", "set public site origin used in mailed links, e.g. https://yatube.example")
	updateCmd.Flags().String("trustedProxies", "", "set comma separated proxy IPs/CIDRs allowed to set X-Forwarded-For")

	settingCmd.AddCommand(resetCmd, showCmd, updateCmd)

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var userCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			email, _ := cmd.Flags().GetString("email")
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")
			createUser(&model.User{
				Username:  username,
				Email:     email,
				FirstName: firstName,
				LastName:  lastName,
			}, password)
		},
	}
	userCreateCmd.Flags().String("username", "", "login name")
	userCreateCmd.Flags().String("password", "", "password")
	userCreateCmd.Flags().String("email", "", "email address")
	userCreateCmd.Flags().String("first-name", "", "first name")
	userCreateCmd.Flags().String("last-name", "", "last name")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	var userDeleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and their posts",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			deleteUser(username)
		},
	}
	userDeleteCmd.Flags().String("username", "", "login name")
	_ = userDeleteCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userCreateCmd, userDeleteCmd)

	var groupCmd = &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	var groupCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Run: func(cmd *cobra.Command, args []string) {
			title, _ := cmd.Flags().GetString("title")
			slug, _ := cmd.Flags().GetString("slug")
			description, _ := cmd.Flags().GetString("description")
			createGroup(title, slug, description)
		},
	}
	groupCreateCmd.Flags().String("title", "", "group title")
	groupCreateCmd.Flags().String("slug", "", "group address, letters, digits, - and _")
	groupCreateCmd.Flags().String("description", "", "group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	var groupDeleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Delete a group, keeping its posts",
		Run: func(cmd *cobra.Command, args []string) {
			slug, _ := cmd.Flags().GetString("slug")
			deleteGroup(slug)
		},
	}
	groupDeleteCmd.Flags().String("slug", "", "group address")
	_ = groupDeleteCmd.MarkFlagRequired("slug")

	groupCmd.AddCommand(groupCreateCmd, groupDeleteCmd)

	rootCmd.AddCommand(runCmd, migrateCmd, settingCmd, userCmd, groupCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
