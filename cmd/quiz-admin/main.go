// quiz-admin 运维工具：创建账号（包括管理员），执行一次双向引用检查。
//
//	quiz-admin [-f quiz-cube.conf] adduser -account teacher1 -admin
//	quiz-admin [-f quiz-cube.conf] reconcile
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/qiniu/x/log"
	"golang.org/x/term"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/form"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/web"
)

var (
	configFilePath = "quiz-cube.conf"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-f config] adduser -account NAME [-admin] [-email E] [-first F] [-last L]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s [-f config] reconcile\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file of quiz-cube server")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	utils.InitConf(configFilePath)
	log.SetOutputLevel(utils.DefaultConf.DebugLevel)
	if utils.DefaultConf.Store == utils.StoreTypeMemory {
		log.Warn("store is memory, changes are lost when quiz-admin exits")
	}
	backend, err := web.NewBackend(&utils.DefaultConf)
	if err != nil {
		log.Fatalf("failed to create backend, error %v", err)
	}

	switch flag.Arg(0) {
	case "adduser":
		err = addUser(backend, flag.Args()[1:])
	case "reconcile":
		err = reconcile(backend)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed, error %v", flag.Arg(0), err)
	}
}

func addUser(b *web.Backend, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	account := fs.String("account", "", "account name, at least 6 characters")
	admin := fs.Bool("admin", false, "create an admin account")
	email := fs.String("email", "", "email")
	firstName := fs.String("first", "", "first name")
	lastName := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	args0 := form.RegisterForm{
		Account:     *account,
		AccountType: model.AccountTypeStudent,
		Email:       *email,
		FirstName:   *firstName,
		LastName:    *lastName,
	}
	if *admin {
		args0.AccountType = model.AccountTypeAdmin
	}
	password, err := readPassword()
	if err != nil {
		return err
	}
	args0.Password = password
	if err = args0.Validate(); err != nil {
		return err
	}
	user, _, err := b.Auth.Register(nil, args0.ToUserDo(), args0.Password)
	if err != nil {
		return err
	}
	fmt.Printf("created %s account %s, id %s\n", user.AccountType, user.Account, user.ID)
	return nil
}

// readPassword 终端输入时关闭回显并要求确认，否则从标准输入读取一行。
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func reconcile(b *web.Backend) error {
	report, err := b.ReconcileTask().Run(nil)
	if err != nil {
		return err
	}
	for _, inconsistency := range report {
		fmt.Println(inconsistency.String())
	}
	fmt.Printf("%d inconsistent links\n", len(report))
	return nil
}
